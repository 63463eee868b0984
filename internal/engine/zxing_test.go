package engine

import (
	"image"
	"image/draw"
	"testing"

	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFixture(t *testing.T, content string, format zxinggo.Format, size int) image.Image {
	t.Helper()
	matrix, err := zxinggo.Encode(content, format, size, size, nil)
	require.NoError(t, err)
	return zxinggo.BitMatrixToImage(matrix)
}

func TestZXingDecodeQRCode(t *testing.T) {
	img := encodeFixture(t, "hello barcode", zxinggo.FormatQRCode, 200)

	symbols, err := NewZXing().Decode(img, Options{MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, FormatQRCode, symbols[0].Format)
	assert.Equal(t, "hello barcode", symbols[0].Text)
	assert.Empty(t, symbols[0].Error)
}

func TestZXingDecodeBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	symbols, err := NewZXing().Decode(img, Options{MaxSymbols: 1})
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestZXingFormatFilterExcludes(t *testing.T) {
	img := encodeFixture(t, "filtered out", zxinggo.FormatQRCode, 200)

	symbols, err := NewZXing().Decode(img, Options{
		Formats:    []Format{FormatEAN13},
		MaxSymbols: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

// sideBySide pastes two symbol renders onto one white canvas, separated and
// surrounded by margin pixels.
func sideBySide(a, b image.Image, margin int) *image.Gray {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	h := max(ah, bh)
	canvas := image.NewGray(image.Rect(0, 0, aw+bw+3*margin, h+2*margin))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xff
	}
	draw.Draw(canvas, image.Rect(margin, margin, margin+aw, margin+ah), a, a.Bounds().Min, draw.Src)
	draw.Draw(canvas, image.Rect(2*margin+aw, margin, 2*margin+aw+bw, margin+bh), b, b.Bounds().Min, draw.Src)
	return canvas
}

func TestZXingDecodeMultipleSymbols(t *testing.T) {
	img := sideBySide(
		encodeFixture(t, "alpha", zxinggo.FormatQRCode, 200),
		encodeFixture(t, "bravo", zxinggo.FormatQRCode, 200),
		20,
	)

	symbols, err := NewZXing().Decode(img, Options{MaxSymbols: 4})
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.ElementsMatch(t, []string{"alpha", "bravo"},
		[]string{symbols[0].Text, symbols[1].Text})
	for _, s := range symbols {
		assert.Equal(t, FormatQRCode, s.Format)
		assert.Empty(t, s.Error)
	}
}

func TestZXingMaxSymbolsTruncatesMultiSymbolImage(t *testing.T) {
	img := sideBySide(
		encodeFixture(t, "alpha", zxinggo.FormatQRCode, 200),
		encodeFixture(t, "bravo", zxinggo.FormatQRCode, 200),
		20,
	)

	symbols, err := NewZXing().Decode(img, Options{MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Empty(t, symbols[0].Error)
}

func TestZXingTryRotateRecoversRotatedCode(t *testing.T) {
	img := encodeFixture(t, "7010123456784", zxinggo.FormatCode128, 300)

	// Code128 is a 1-D symbology, so a 90° rotated render only decodes
	// through the rotation pass.
	rotated := rotateGray90(img)

	symbols, err := NewZXing().Decode(rotated, Options{TryRotate: true, MaxSymbols: 1})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "7010123456784", symbols[0].Text)
}

// rotateGray90 rotates counter-clockwise without pulling the production
// transform into the fixture path.
func rotateGray90(src image.Image) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func TestPassesMapBackIdentity(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	passes := NewZXing().passes(img, Options{})
	require.Len(t, passes, 1)
	assert.Equal(t, Point{X: 7, Y: 11}, passes[0].mapBack(Point{X: 7, Y: 11}))
}

func TestPassesMapBackRotations(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	passes := NewZXing().passes(img, Options{TryRotate: true})
	require.Len(t, passes, 3)

	// Pass 1 is the 90° CCW view (30 wide, 40 tall). The original corner
	// (0,0) lands at (0,39) there, so mapping back must invert that.
	assert.Equal(t, Point{X: 0, Y: 0}, passes[1].mapBack(Point{X: 0, Y: 39}))
	assert.Equal(t, Point{X: 39, Y: 29}, passes[1].mapBack(Point{X: 29, Y: 0}))

	// Pass 2 is the 270° (clockwise) view: original (0,0) lands at (29,0).
	assert.Equal(t, Point{X: 0, Y: 0}, passes[2].mapBack(Point{X: 29, Y: 0}))
	assert.Equal(t, Point{X: 39, Y: 29}, passes[2].mapBack(Point{X: 0, Y: 39}))
}

func TestPassesDownscaleRequiresLargeImage(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 100, 100))
	assert.Len(t, NewZXing().passes(small, Options{TryDownscale: true}), 1)

	big := image.NewGray(image.Rect(0, 0, 400, 400))
	passes := NewZXing().passes(big, Options{TryDownscale: true})
	require.Len(t, passes, 2)
	assert.Equal(t, Point{X: 200, Y: 200}, passes[1].mapBack(Point{X: 100, Y: 100}))
}

func TestQuadFromPoints(t *testing.T) {
	quad := quadFromPoints([]Point{{X: 10, Y: 40}, {X: 90, Y: 5}, {X: 50, Y: 60}})
	assert.Equal(t, Point{X: 10, Y: 5}, quad.TopLeft)
	assert.Equal(t, Point{X: 90, Y: 5}, quad.TopRight)
	assert.Equal(t, Point{X: 90, Y: 60}, quad.BottomRight)
	assert.Equal(t, Point{X: 10, Y: 60}, quad.BottomLeft)
}

func TestQuadFromPointsEmpty(t *testing.T) {
	assert.Equal(t, Quadrilateral{}, quadFromPoints(nil))
}
