package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symscan/symscan/internal/engine"
	"github.com/symscan/symscan/internal/testutil"
)

func TestServer_DecodeImageHandler(t *testing.T) {
	stub := &engine.Stub{Symbols: stubSymbols()}
	server := newTestServer(stub)

	png := testutil.GenerateBarcodePNG(t, testutil.DefaultBarcodeConfig("hello"))
	req, err := multipartUpload("image", "code.png", png, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "QRCode", response.Symbols[0].Format)
	assert.Equal(t, "hello", response.Symbols[0].Text)
	assert.Equal(t, "]Q1", response.Symbols[0].SymbologyIdentifier)
}

func TestServer_DecodeImageHandlerRealEngine(t *testing.T) {
	server := NewServer(Config{CORSOrigin: "*", MaxUploadMB: 10})

	png := testutil.GenerateBarcodePNG(t, testutil.DefaultBarcodeConfig("live decode"))
	req, err := multipartUpload("image", "code.png", png, map[string]string{"max_symbols": "1"})
	require.NoError(t, err)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "live decode", response.Symbols[0].Text)
}

func TestServer_DecodeImageHandlerOptionsForwarded(t *testing.T) {
	stub := &engine.Stub{}
	server := newTestServer(stub)

	png := testutil.GenerateBarcodePNG(t, testutil.DefaultBarcodeConfig("x"))
	req, err := multipartUpload("image", "code.png", png, map[string]string{
		"try_harder":  "true",
		"formats":     "QRCode,EAN-13",
		"max_symbols": "5",
	})
	require.NoError(t, err)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.LastOpts.TryHarder)
	assert.True(t, stub.LastOpts.TryRotate)
	assert.Equal(t, []engine.Format{engine.FormatQRCode, engine.FormatEAN13}, stub.LastOpts.Formats)
	assert.Equal(t, 5, stub.LastOpts.MaxSymbols)
}

func TestServer_DecodeImageHandlerNoFile(t *testing.T) {
	server := newTestServer(&engine.Stub{})

	req := httptest.NewRequest(http.MethodPost, "/decode/image", bytes.NewReader(nil))
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DecodeImageHandlerBadImage(t *testing.T) {
	server := newTestServer(&engine.Stub{})

	req, err := multipartUpload("image", "code.png", []byte("not an image"), nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "Error loading image", response.Error)
}

func TestServer_DecodeImageHandlerMethodNotAllowed(t *testing.T) {
	server := newTestServer(&engine.Stub{})

	req := httptest.NewRequest(http.MethodGet, "/decode/image", nil)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_DecodeImageHandlerNoSymbols(t *testing.T) {
	server := newTestServer(&engine.Stub{})

	req, err := multipartUpload("image", "blank.png", testutil.WhitePNG(t, 10, 10), nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()

	server.decodeImageHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, 0, response.Count)
	assert.NotNil(t, response.Symbols)
}
