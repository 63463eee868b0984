package reader

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symscan/symscan/internal/engine"
	"github.com/symscan/symscan/internal/testutil"
)

func qrPNG(t *testing.T, content string) []byte {
	t.Helper()
	matrix, err := zxinggo.Encode(content, zxinggo.FormatQRCode, 200, 200, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, zxinggo.BitMatrixToImage(matrix)))
	return buf.Bytes()
}

func TestDecodeImageRoundTrip(t *testing.T) {
	rec := NewDefault().DecodeImage(qrPNG(t, "ticket:42"), Options{})
	require.Empty(t, rec.Error)
	assert.Equal(t, "QRCode", rec.Format)
	assert.Equal(t, "ticket:42", rec.Text)
	assert.True(t, rec.Decoded())
}

func TestDecodeImageBadBytes(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("not an image")} {
		records := NewDefault().DecodeImageMulti(data, Options{})
		require.Len(t, records, 1)
		assert.Equal(t, ErrMsgLoadingImage, records[0].Error)
	}
}

func TestDecodePixmapWhiteImageIsEmptyRecord(t *testing.T) {
	pix := make([]byte, 10*10*4)
	for i := range pix {
		pix[i] = 0xff
	}
	rec := NewDefault().DecodePixmap(RGBAPixmap(10, 10, pix), Options{})
	assert.Equal(t, Record{}, rec)
	assert.False(t, rec.Decoded())
}

func TestDecodeGrayPixmapRoundTrip(t *testing.T) {
	matrix, err := zxinggo.Encode("gray path", zxinggo.FormatQRCode, 200, 200, nil)
	require.NoError(t, err)
	img := zxinggo.BitMatrixToImage(matrix)

	rec := NewDefault().DecodePixmap(GrayPixmap(img.Rect.Dx(), img.Rect.Dy(), img.Pix), Options{})
	require.Empty(t, rec.Error)
	assert.Equal(t, "gray path", rec.Text)
}

func TestDecodePixmapBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		pm   Pixmap
	}{
		{"zero width", RGBAPixmap(0, 10, make([]byte, 400))},
		{"negative height", GrayPixmap(10, -1, make([]byte, 100))},
		{"short buffer", RGBAPixmap(10, 10, make([]byte, 399))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := NewDefault().DecodePixmapMulti(tt.pm, Options{})
			require.Len(t, records, 1)
			assert.Equal(t, ErrMsgBadPixmap, records[0].Error)
		})
	}
}

func TestInvalidFormatFilterSkipsEngine(t *testing.T) {
	stub := &engine.Stub{}
	records := New(stub).DecodeImageMulti(qrPNG(t, "x"), Options{Formats: "QRCode,Bogus"})
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Error, "Bogus")
	assert.Zero(t, stub.Calls)
}

func TestTryHarderDrivesSearchPasses(t *testing.T) {
	stub := &engine.Stub{}
	r := New(stub)

	r.DecodeImageMulti(qrPNG(t, "x"), Options{TryHarder: true})
	assert.True(t, stub.LastOpts.TryHarder)
	assert.True(t, stub.LastOpts.TryRotate)
	assert.True(t, stub.LastOpts.TryInvert)
	assert.True(t, stub.LastOpts.TryDownscale)

	r.DecodeImageMulti(qrPNG(t, "x"), Options{})
	assert.False(t, stub.LastOpts.TryHarder)
	assert.False(t, stub.LastOpts.TryRotate)
	assert.False(t, stub.LastOpts.TryInvert)
	assert.False(t, stub.LastOpts.TryDownscale)
}

func TestMaxSymbolsForwarded(t *testing.T) {
	stub := &engine.Stub{}
	r := New(stub)

	r.DecodeImageMulti(qrPNG(t, "x"), Options{MaxSymbols: 7})
	assert.Equal(t, 7, stub.LastOpts.MaxSymbols)

	r.DecodeImageMulti(qrPNG(t, "x"), Options{MaxSymbols: 0})
	assert.Equal(t, 1, stub.LastOpts.MaxSymbols)

	r.DecodeImage(qrPNG(t, "x"), Options{MaxSymbols: 7})
	assert.Equal(t, 1, stub.LastOpts.MaxSymbols)
}

func TestDecodeImageMultiTwoSymbols(t *testing.T) {
	data := testutil.ComposeBarcodesPNG(t, 20,
		testutil.DefaultBarcodeConfig("alpha"),
		testutil.DefaultBarcodeConfig("bravo"))
	r := NewDefault()

	records := r.DecodeImageMulti(data, Options{MaxSymbols: 4})
	require.Len(t, records, 2)
	assert.ElementsMatch(t, []string{"alpha", "bravo"},
		[]string{records[0].Text, records[1].Text})
	for _, rec := range records {
		assert.True(t, rec.Decoded())
		assert.Empty(t, rec.Error)
	}

	// maxSymbols caps the result set on the same image.
	records = r.DecodeImageMulti(data, Options{MaxSymbols: 1})
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Error)
}

func TestRecordCopiesRawBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	stub := &engine.Stub{Symbols: []engine.Symbol{{Format: engine.FormatQRCode, Text: "x", Bytes: raw}}}

	records := New(stub).DecodeImageMulti(qrPNG(t, "x"), Options{})
	require.Len(t, records, 1)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, records[0].Bytes)

	raw[0] = 0xee
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, records[0].Bytes)
}

func TestSingleEqualsFirstOfMulti(t *testing.T) {
	stub := &engine.Stub{Symbols: []engine.Symbol{
		{Format: engine.FormatQRCode, Text: "first"},
		{Format: engine.FormatEAN13, Text: "second"},
	}}
	r := New(stub)
	data := qrPNG(t, "x")

	one := r.DecodeImage(data, Options{})
	many := r.DecodeImageMulti(data, Options{MaxSymbols: 1})
	require.NotEmpty(t, many)
	assert.Equal(t, many[0], one)
}

func TestEngineErrorBecomesRecord(t *testing.T) {
	stub := &engine.Stub{Err: errors.New("checksum mismatch")}
	records := New(stub).DecodeImageMulti(qrPNG(t, "x"), Options{})
	require.Len(t, records, 1)
	assert.Equal(t, "checksum mismatch", records[0].Error)
}

func TestEnginePanicBecomesUnknownError(t *testing.T) {
	stub := &engine.Stub{PanicWith: "index out of range"}
	records := New(stub).DecodeImageMulti(qrPNG(t, "x"), Options{})
	require.Len(t, records, 1)
	assert.Equal(t, ErrMsgUnknown, records[0].Error)

	rec := New(stub).DecodeImage(qrPNG(t, "x"), Options{})
	assert.Equal(t, ErrMsgUnknown, rec.Error)
}

func TestImageDecodeForcesLuminance(t *testing.T) {
	stub := &engine.Stub{}
	New(stub).DecodeImageMulti(qrPNG(t, "x"), Options{})
	assert.Equal(t, image.Rect(0, 0, 200, 200), stub.LastDims)
}
