package server

import (
	"image"
	"image/draw"
	"net/http"
	"os"
	"time"

	"github.com/symscan/symscan/internal/pdf"
	"github.com/symscan/symscan/internal/reader"
)

// PDFImageResult holds the decode outcome for one image embedded in a PDF.
type PDFImageResult struct {
	Page    int             `json:"page"`
	Image   int             `json:"image"`
	Symbols []reader.Record `json:"symbols"`
}

// PDFDecodeResponse is the response body for PDF decode requests.
type PDFDecodeResponse struct {
	Success bool             `json:"success"`
	Images  []PDFImageResult `json:"images"`
	Count   int              `json:"count"`
	Error   string           `json:"error,omitempty"`
}

// decodePDFHandler extracts embedded images from an uploaded PDF and decodes
// barcodes in each of them.
func (s *Server) decodePDFHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := s.readUpload(w, r, "pdf")
	if !ok {
		decodeRequestsTotal.WithLabelValues("pdf", "error").Inc()
		return
	}

	// pdfcpu works on files, so stage the upload in a temp file.
	tempPath, err := stagePDF(data)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("pdf", "error").Inc()
		s.writeErrorResponse(w, "Failed to stage PDF", http.StatusInternalServerError)
		return
	}
	defer func() { _ = os.Remove(tempPath) }()

	pageRange := formOrQuery(r, "pages")
	images, err := pdf.ExtractImages(tempPath, pageRange)
	if err != nil {
		decodeRequestsTotal.WithLabelValues("pdf", "error").Inc()
		s.writeErrorResponse(w, "Failed to extract images from PDF: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.parseDecodeOptions(r)

	start := time.Now()
	results := make([]PDFImageResult, 0, len(images))
	total := 0
	for _, extracted := range images {
		records := s.reader.DecodePixmapMulti(grayPixmap(extracted.Image), opts)
		total += countDecoded(records)
		results = append(results, PDFImageResult{
			Page:    extracted.Page,
			Image:   extracted.Index,
			Symbols: records,
		})
	}
	duration := time.Since(start)

	decodeRequestsTotal.WithLabelValues("pdf", "success").Inc()
	decodeDuration.WithLabelValues("pdf").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("pdf").Observe(float64(total))

	s.writeJSON(w, PDFDecodeResponse{Success: true, Images: results, Count: total})
}

func stagePDF(data []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "symscan-*.pdf")
	if err != nil {
		return "", err
	}
	path := tempFile.Name()
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// grayPixmap reduces an already-decoded image to a luminance pixmap for the
// reader.
func grayPixmap(img image.Image) reader.Pixmap {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Rect, img, b.Min, draw.Src)
	return reader.GrayPixmap(g.Rect.Dx(), g.Rect.Dy(), g.Pix)
}
