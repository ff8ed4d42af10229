package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"clipforge/tracker"
	"clipforge/types"
)

// submitRequest is the JSON body for job submission. Unknown fields
// are rejected so option typos surface instead of being ignored.
type submitRequest struct {
	Script  string        `json:"script"`
	Options types.Options `json:"options"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// runServer exposes the job API over plain net/http
func runServer(addr string, t *tracker.Tracker) error {
	return http.ListenAndServe(addr, newMux(t))
}

func newMux(t *tracker.Tracker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		var req submitRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
			return
		}
		jobID, err := t.Submit(req.Script, req.Options)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusAccepted, submitResponse{JobID: jobID})
	})

	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		job, err := t.Status(r.PathValue("id"))
		if err != nil {
			if errors.Is(err, tracker.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, job)
	})

	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, t.List())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}
