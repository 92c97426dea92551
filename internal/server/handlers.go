package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rverdone/quadro/internal/storage"
)

// StatementRequest is the wire shape of both SQL endpoints: raw SQL text plus
// a positional parameter list.
type StatementRequest struct {
	DatabaseID string `json:"database_id,omitempty"`
	Query      string `json:"query"`
	Params     []any  `json:"params"`
}

type QueryResponse struct {
	Results []storage.Record `json:"results"`
}

type ExecuteResponse struct {
	Success bool `json:"success"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	var req StatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := s.db.Query(req.Query, req.Params)
	if err != nil {
		log.Printf("query failed: %v", err)
		jsonError(w, "database operation failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []storage.Record{}
	}
	jsonResponse(w, QueryResponse{Results: results}, http.StatusOK)
}

func (s *Server) executeHandler(w http.ResponseWriter, r *http.Request) {
	var req StatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	if err := s.db.Execute(req.Query, req.Params); err != nil {
		log.Printf("execute failed: %v", err)
		jsonError(w, "database operation failed", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, ExecuteResponse{Success: true}, http.StatusOK)
}

// saveDBHandler overwrites the durable snapshot with the raw request body.
func (s *Server) saveDBHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("failed to read snapshot body: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0700); err != nil {
		log.Printf("failed to create snapshot directory: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0600); err != nil {
		log.Printf("failed to write snapshot: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// snapshotHandler serves the last stored snapshot so embedded clients can
// restore their image at startup.
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.snapshotPath)
	if os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("failed to read snapshot: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}
