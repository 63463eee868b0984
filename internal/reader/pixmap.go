package reader

import (
	"bytes"
	"errors"
	"image"
	"image/draw"

	// Compressed image codecs accepted by the image entry points.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PixelLayout describes how Pixmap bytes are packed.
type PixelLayout int

const (
	// LayoutGray is one luminance byte per pixel, rows packed tightly.
	LayoutGray PixelLayout = iota

	// LayoutRGBA is four bytes per pixel (R, G, B, A), rows packed tightly.
	LayoutRGBA
)

// Pixmap is a raw, already-decoded pixel buffer supplied by the caller.
// Width and Height describe the buffer; the buffer is not copied.
type Pixmap struct {
	Width  int
	Height int
	Layout PixelLayout
	Pix    []byte
}

// GrayPixmap wraps a tightly packed luminance buffer.
func GrayPixmap(width, height int, pix []byte) Pixmap {
	return Pixmap{Width: width, Height: height, Layout: LayoutGray, Pix: pix}
}

// RGBAPixmap wraps a tightly packed RGBA buffer.
func RGBAPixmap(width, height int, pix []byte) Pixmap {
	return Pixmap{Width: width, Height: height, Layout: LayoutRGBA, Pix: pix}
}

var errBadPixmap = errors.New("pixmap dimensions do not match buffer")

// bytesPerPixel returns the pixel stride of the layout.
func (l PixelLayout) bytesPerPixel() int {
	if l == LayoutRGBA {
		return 4
	}
	return 1
}

// image wraps the pixmap as an image.Image without copying pixel data.
func (p Pixmap) image() (image.Image, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errBadPixmap
	}
	stride := p.Width * p.Layout.bytesPerPixel()
	if len(p.Pix) < stride*p.Height {
		return nil, errBadPixmap
	}
	rect := image.Rect(0, 0, p.Width, p.Height)
	switch p.Layout {
	case LayoutRGBA:
		return &image.RGBA{Pix: p.Pix, Stride: stride, Rect: rect}, nil
	default:
		return &image.Gray{Pix: p.Pix, Stride: stride, Rect: rect}, nil
	}
}

// decodeImageBytes decodes a compressed image and reduces it to luminance.
// The decode layer always works on grayscale, matching what the symbol
// readers consume.
func decodeImageBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toGray(img), nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}
