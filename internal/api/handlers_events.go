package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
)

// storageEvent is the object-finalized notification sent by the bucket
// trigger.
type storageEvent struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
	Force  bool   `json:"force"`
}

// handleStorageEvent queues the object named by a storage event. The event
// id doubles as the run id so redelivered events replay idempotently.
func (s *Server) handleStorageEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var ev storageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		jsonError(w, "invalid event: "+err.Error(), http.StatusBadRequest)
		return
	}
	if ev.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if !parser.IsSupportedExtension(ev.Name) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", path.Ext(ev.Name)), http.StatusBadRequest)
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	job := pipeline.NewJob(ev.ID, ev.Bucket, ev.Name, ev.Force)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	s.log.Info("storage event accepted",
		"event_id", ev.ID,
		"bucket", ev.Bucket,
		"name", ev.Name,
		"job_id", job.ID,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(acceptedBody(job))
}
