package records

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the read-side record query API.
func RegisterRoutes(r *mux.Router, store *Store) {
	api := r.PathPrefix("/api/records").Subrouter()
	api.HandleFunc("", store.ListHandler).Methods(http.MethodGet)
	api.HandleFunc("/{policy_no}", store.GetHandler).Methods(http.MethodGet)
}

// ListHandler handles GET /api/records?uid=&limit=&offset=
func (s *Store) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	uid := r.URL.Query().Get("uid")

	recs, err := s.List(r.Context(), uid, limit, offset)
	if err != nil {
		log.Printf("records: list error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": recs, "count": len(recs)})
}

// GetHandler handles GET /api/records/{policy_no}
func (s *Store) GetHandler(w http.ResponseWriter, r *http.Request) {
	policyNo := mux.Vars(r)["policy_no"]

	rec, err := s.FindByPolicyNo(r.Context(), policyNo)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "record not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []Record{*rec}})
}
