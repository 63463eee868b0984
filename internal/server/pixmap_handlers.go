package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/symscan/symscan/internal/reader"
)

// PixmapRequest is the JSON body of a raw-pixel decode request. Pixels are
// base64-encoded by standard JSON byte-slice marshaling.
type PixmapRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Layout string `json:"layout"` // "gray" or "rgba"
	Pixels []byte `json:"pixels"`

	Options *PixmapOptions `json:"options,omitempty"`
}

// PixmapOptions carries per-request decode overrides.
type PixmapOptions struct {
	TryHarder  *bool   `json:"try_harder,omitempty"`
	Formats    *string `json:"formats,omitempty"`
	MaxSymbols *int    `json:"max_symbols,omitempty"`
}

// applyOverrides merges request overrides onto the server decode defaults.
func (s *Server) applyOverrides(o *PixmapOptions) reader.Options {
	opts := s.defaults
	if o == nil {
		return opts
	}
	if o.TryHarder != nil {
		opts.TryHarder = *o.TryHarder
	}
	if o.Formats != nil {
		opts.Formats = *o.Formats
	}
	if o.MaxSymbols != nil {
		opts.MaxSymbols = *o.MaxSymbols
	}
	return opts
}

// decodePixmapHandler decodes barcodes from an uncompressed pixel buffer.
func (s *Server) decodePixmapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var req PixmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		decodeRequestsTotal.WithLabelValues("pixmap", "error").Inc()
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pm, err := pixmapFromRequest(&req)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("pixmap", "error").Inc()
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.applyOverrides(req.Options)

	start := time.Now()
	records := s.reader.DecodePixmapMulti(pm, opts)
	duration := time.Since(start)

	decodeRequestsTotal.WithLabelValues("pixmap", "success").Inc()
	decodeDuration.WithLabelValues("pixmap").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("pixmap").Observe(float64(countDecoded(records)))

	uploadSizeBytes.Observe(float64(len(req.Pixels)))

	s.writeDecodeResponse(w, records)
}
