// Package testutil generates barcode fixtures for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/stretchr/testify/require"

	_ "github.com/ericlevine/zxinggo/oned"
	_ "github.com/ericlevine/zxinggo/qrcode"
)

// BarcodeConfig holds configuration for generating barcode fixtures.
type BarcodeConfig struct {
	Content  string
	Format   zxinggo.Format
	Width    int
	Height   int
	Rotation float64 // rotation in degrees
	Inverted bool
	Padding  int
}

// DefaultBarcodeConfig returns a QR code fixture configuration.
func DefaultBarcodeConfig(content string) BarcodeConfig {
	return BarcodeConfig{
		Content: content,
		Format:  zxinggo.FormatQRCode,
		Width:   200,
		Height:  200,
	}
}

// GenerateBarcode renders a barcode as a grayscale image.
func GenerateBarcode(t *testing.T, config BarcodeConfig) image.Image {
	t.Helper()

	matrix, err := zxinggo.Encode(config.Content, config.Format, config.Width, config.Height, nil)
	require.NoError(t, err)

	var img image.Image = zxinggo.BitMatrixToImage(matrix)

	if config.Padding > 0 {
		img = padImage(img, config.Padding)
	}
	if config.Rotation != 0 {
		img = imaging.Rotate(img, config.Rotation, color.White)
	}
	if config.Inverted {
		img = imaging.Invert(img)
	}
	return img
}

// GenerateBarcodePNG renders a barcode and encodes it as PNG bytes.
func GenerateBarcodePNG(t *testing.T, config BarcodeConfig) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, GenerateBarcode(t, config)))
	return buf.Bytes()
}

// WriteBarcodeFile writes a barcode PNG into dir and returns its path.
func WriteBarcodeFile(t *testing.T, dir, name string, config BarcodeConfig) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, GenerateBarcodePNG(t, config), 0o600))
	return path
}

// ComposeBarcodes lays the given barcodes out left to right on a white
// canvas, separated and surrounded by margin pixels.
func ComposeBarcodes(t *testing.T, margin int, configs ...BarcodeConfig) image.Image {
	t.Helper()

	imgs := make([]image.Image, 0, len(configs))
	width := margin
	height := 0
	for _, config := range configs {
		img := GenerateBarcode(t, config)
		imgs = append(imgs, img)
		width += img.Bounds().Dx() + margin
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}
	height += 2 * margin

	canvas := imaging.New(width, height, color.White)
	x := margin
	for _, img := range imgs {
		canvas = imaging.Paste(canvas, img, image.Pt(x, margin))
		x += img.Bounds().Dx() + margin
	}
	return canvas
}

// ComposeBarcodesPNG lays barcodes out on a white canvas and encodes the
// result as PNG bytes.
func ComposeBarcodesPNG(t *testing.T, margin int, configs ...BarcodeConfig) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, ComposeBarcodes(t, margin, configs...)))
	return buf.Bytes()
}

// WhitePNG encodes a blank white image, useful for no-symbol cases.
func WhitePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func padImage(img image.Image, padding int) image.Image {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*padding, b.Dy()+2*padding))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(padding, padding, padding+b.Dx(), padding+b.Dy()), img, b.Min, draw.Src)
	return out
}
