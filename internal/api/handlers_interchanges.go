package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const maxInterchangeLimit = 500

// handleListInterchanges lists the most recently stored interchanges.
func (s *Server) handleListInterchanges(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "no queryable sink configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxInterchangeLimit)
	}

	rows, err := s.store.ListInterchanges(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list interchanges: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"interchanges": rows})
}
