package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/symscan/symscan/internal/engine"
	"github.com/symscan/symscan/internal/reader"
	"github.com/symscan/symscan/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, response)
}

// formatsHandler returns the supported barcode symbologies.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	formats := engine.AllFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}

	s.writeJSON(w, FormatsResponse{Formats: names, Count: len(names)})
}

// parseDecodeOptions builds the decode options for a request, starting from
// the server defaults and applying form or query overrides.
func (s *Server) parseDecodeOptions(r *http.Request) reader.Options {
	opts := s.defaults

	if v := formOrQuery(r, "try_harder"); v != "" {
		opts.TryHarder = v == "1" || v == "true"
	}
	if v := formOrQuery(r, "formats"); v != "" {
		opts.Formats = v
	}
	if v := formOrQuery(r, "max_symbols"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxSymbols = n
		}
	}
	return opts
}

func formOrQuery(r *http.Request, key string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

// writeDecodeResponse converts records into the HTTP response shape. A
// request-level failure (exactly one undecoded record with an error set)
// becomes an unsuccessful response with that message.
func (s *Server) writeDecodeResponse(w http.ResponseWriter, records []reader.Record) {
	if len(records) == 1 && records[0].Error != "" && records[0].Format == "" {
		s.writeErrorResponse(w, records[0].Error, http.StatusUnprocessableEntity)
		return
	}
	if records == nil {
		records = []reader.Record{}
	}
	s.writeJSON(w, DecodeResponse{Success: true, Symbols: records, Count: len(records)})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := DecodeResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
