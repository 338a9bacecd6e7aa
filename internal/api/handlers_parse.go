package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
)

// handleParse runs the transform synchronously and returns the projected
// tables without writing them anywhere.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	filename := sanitizeFilename(r.URL.Query().Get("filename"))

	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	out := pipeline.Transform(string(data), filename, s.transformOptions())
	diags := out.Result.Diagnostics
	if diags == nil {
		diags = []parser.Diagnostic{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":         out.Filename,
		"segments":         out.Segments,
		"segments_skipped": out.Result.Skipped(),
		"diagnostics":      diags,
		"counts":           out.Tables.Counts(),
		"tables":           out.Tables,
	})
}
