package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/beemap/pkg/beemap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handlePut stores the request body under the key in the path
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, "Key is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.Lock()
	s.data.Insert(key, body)
	keys := s.data.Len()
	s.mu.Unlock()
	s.metrics.RecordMapOperation("insert", true, time.Since(start), keys)

	sendSuccess(w, map[string]string{"message": "Key-value pair stored successfully"})
}

// handleGet returns the value for the key in the path
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, "Key is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.Lock()
	ptr, ok := s.data.Get(key)
	var value []byte
	if ok {
		// Copy while still holding the lock: the pointer is only
		// valid until the next map operation.
		value = append([]byte(nil), *ptr...)
	}
	keys := s.data.Len()
	s.mu.Unlock()
	s.metrics.RecordMapOperation("get", ok, time.Since(start), keys)

	if !ok {
		sendError(w, "Key not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(value)
}

// handleBefore returns the entry at the greatest key strictly less
// than the key in the path; with ?inclusive=true the key itself wins
// when present
func (s *Server) handleBefore(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, "Key is required", http.StatusBadRequest)
		return
	}
	inclusive := r.URL.Query().Get("inclusive") == "true"

	start := time.Now()
	s.mu.Lock()
	var (
		foundKey string
		ptr      *[]byte
		ok       bool
	)
	if inclusive {
		foundKey, ptr, ok = s.data.GetKeyValueBeforeInc(key)
	} else {
		foundKey, ptr, ok = s.data.GetKeyValueBefore(key)
	}
	var value []byte
	if ok {
		value = append([]byte(nil), *ptr...)
	}
	keys := s.data.Len()
	s.mu.Unlock()
	s.metrics.RecordMapOperation("before", ok, time.Since(start), keys)

	if !ok {
		sendError(w, "No predecessor", http.StatusNotFound)
		return
	}

	sendSuccess(w, BeforeResponse{Key: foundKey, Value: string(value)})
}

// handleBulk stages a batch of entries in one call
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if len(req.Entries) == 0 {
		sendError(w, "entries is required", http.StatusBadRequest)
		return
	}

	entries := make([]beemap.Entry[string, []byte], len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = beemap.Entry[string, []byte]{Key: e.Key, Value: []byte(e.Value)}
	}

	start := time.Now()
	s.mu.Lock()
	s.data.BulkInsert(entries, req.Sorted)
	keys := s.data.Len()
	s.mu.Unlock()
	s.metrics.RecordMapOperation("bulk_insert", true, time.Since(start), keys)

	sendSuccess(w, map[string]int{"staged": len(entries)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := StatsResponse{
		Len:     s.data.Len(),
		IsEmpty: s.data.IsEmpty(),
	}
	s.mu.Unlock()

	sendSuccess(w, stats)
}
