package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/symscan/symscan/internal/engine"
	"github.com/symscan/symscan/internal/reader"
)

// newTestServer creates a server on a scripted engine with test-friendly
// limits.
func newTestServer(stub *engine.Stub) *Server {
	return NewServerWithReader(reader.New(stub), Config{
		CORSOrigin:  "*",
		MaxUploadMB: 10,
		TimeoutSec:  5,
		Decode:      reader.Options{MaxSymbols: 8},
	})
}

// stubSymbols is a small canned decode result.
func stubSymbols() []engine.Symbol {
	return []engine.Symbol{
		{
			Format:              engine.FormatQRCode,
			Text:                "hello",
			Bytes:               []byte{0x01, 0x02},
			SymbologyIdentifier: "]Q1",
		},
	}
}

// multipartUpload builds a multipart request with one file field.
func multipartUpload(field, filename string, data []byte, extra map[string]string) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, "/decode/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}
