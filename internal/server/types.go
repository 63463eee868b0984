package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/symscan/symscan/internal/reader"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	reader      *reader.Reader
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	defaults    reader.Options
	rateLimiter *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxUploadMB  int64
	TimeoutSec   int
	RateLimitRPS int

	// Decode is the option set applied when a request carries no overrides.
	Decode reader.Options
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type FormatsResponse struct {
	Formats []string `json:"formats"`
	Count   int      `json:"count"`
}

type DecodeResponse struct {
	Success bool            `json:"success"`
	Symbols []reader.Record `json:"symbols"`
	Count   int             `json:"count"`
	Error   string          `json:"error,omitempty"`
}

// NewServer creates a decode server on the default barcode engine.
func NewServer(config Config) *Server {
	return NewServerWithReader(reader.NewDefault(), config)
}

// NewServerWithReader creates a decode server on an explicit reader. Tests
// use this to substitute a scripted engine.
func NewServerWithReader(r *reader.Reader, config Config) *Server {
	var limiter *RateLimiter
	if config.RateLimitRPS > 0 {
		limiter = NewRateLimiter(config.RateLimitRPS)
	}
	return &Server{
		reader:      r,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		defaults:    config.Decode,
		rateLimiter: limiter,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/decode/image", s.corsMiddleware(s.rateLimitMiddleware(s.decodeImageHandler)))
	mux.HandleFunc("/decode/pixmap", s.corsMiddleware(s.rateLimitMiddleware(s.decodePixmapHandler)))
	mux.HandleFunc("/decode/pdf", s.corsMiddleware(s.rateLimitMiddleware(s.decodePDFHandler)))
	mux.HandleFunc("/decode/stream", s.decodeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
