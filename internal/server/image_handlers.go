package server

import (
	"io"
	"net/http"
	"time"

	"github.com/symscan/symscan/internal/reader"
)

// decodeImageHandler decodes barcodes from an uploaded compressed image.
func (s *Server) decodeImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := s.readUpload(w, r, "image")
	if !ok {
		decodeRequestsTotal.WithLabelValues("image", "error").Inc()
		return // error already written
	}

	opts := s.parseDecodeOptions(r)

	start := time.Now()
	records := s.reader.DecodeImageMulti(data, opts)
	duration := time.Since(start)

	decodeRequestsTotal.WithLabelValues("image", "success").Inc()
	decodeDuration.WithLabelValues("image").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("image").Observe(float64(countDecoded(records)))

	s.writeDecodeResponse(w, records)
}

// readUpload parses the multipart form and reads the named file field. On
// failure it writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeErrorResponse(w, "No "+field+" file provided", http.StatusBadRequest)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read uploaded data", http.StatusInternalServerError)
		return nil, false
	}
	return data, true
}

func countDecoded(records []reader.Record) int {
	n := 0
	for _, rec := range records {
		if rec.Decoded() {
			n++
		}
	}
	return n
}
