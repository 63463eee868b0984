package engine

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
	zxinggo "github.com/ericlevine/zxinggo"
	"github.com/ericlevine/zxinggo/binarizer"
	"github.com/ericlevine/zxinggo/multi"

	// Register format readers with the multi-format dispatcher.
	_ "github.com/ericlevine/zxinggo/aztec"
	_ "github.com/ericlevine/zxinggo/datamatrix"
	_ "github.com/ericlevine/zxinggo/oned"
	_ "github.com/ericlevine/zxinggo/pdf417"
	_ "github.com/ericlevine/zxinggo/qrcode"
)

// ZXing is the default Engine, backed by the zxinggo port of ZXing. It holds
// no mutable state, so a single instance may be shared across goroutines.
type ZXing struct{}

// NewZXing creates the zxinggo-backed engine.
func NewZXing() *ZXing { return &ZXing{} }

// decodePass is one attempt over a (possibly transformed) view of the input
// image. mapBack translates a point from pass coordinates to coordinates of
// the original image.
type decodePass struct {
	img     image.Image
	mapBack func(Point) Point
}

// Decode runs the configured decode passes over the image and returns up to
// opts.MaxSymbols distinct symbols. A clean "nothing found" returns an empty
// slice and a nil error.
func (e *ZXing) Decode(img image.Image, opts Options) ([]Symbol, error) {
	limit := opts.MaxSymbols
	if limit < 1 {
		limit = 1
	}

	var symbols []Symbol
	seen := make(map[string]bool)
	for _, pass := range e.passes(img, opts) {
		results, err := decodeBitmaps(pass.img, opts, limit > 1)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			sym := e.toSymbol(r, pass.mapBack)
			key := sym.Format.String() + "\x00" + sym.Text
			if seen[key] {
				continue
			}
			seen[key] = true
			symbols = append(symbols, sym)
			if len(symbols) >= limit {
				return symbols, nil
			}
		}
	}
	return symbols, nil
}

// passes builds the sequence of image views to attempt: the original first,
// then 90°/270° rotations when TryRotate is set, then a half-resolution view
// when TryDownscale is set and the image is large enough to survive it.
func (e *ZXing) passes(img image.Image, opts Options) []decodePass {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	result := []decodePass{{img: img, mapBack: func(p Point) Point { return p }}}

	if opts.TryRotate {
		// imaging.Rotate90 rotates counter-clockwise: original (x,y) lands
		// at (y, w-1-x), so the inverse is (x',y') -> (w-1-y', x').
		result = append(result, decodePass{
			img:     imaging.Rotate90(img),
			mapBack: func(p Point) Point { return Point{X: w - 1 - p.Y, Y: p.X} },
		})
		// Rotate270 is clockwise: original (x,y) lands at (h-1-y, x);
		// inverse is (x',y') -> (y', h-1-x').
		result = append(result, decodePass{
			img:     imaging.Rotate270(img),
			mapBack: func(p Point) Point { return Point{X: p.Y, Y: h - 1 - p.X} },
		})
	}

	if opts.TryDownscale && w >= 2*minDownscaleDim && h >= 2*minDownscaleDim {
		half := imaging.Resize(img, w/2, h/2, imaging.Box)
		sx := float64(w) / float64(w/2)
		sy := float64(h) / float64(h/2)
		result = append(result, decodePass{
			img: half,
			mapBack: func(p Point) Point {
				return Point{X: int(float64(p.X) * sx), Y: int(float64(p.Y) * sy)}
			},
		})
	}

	return result
}

// minDownscaleDim is the smallest dimension worth halving; below this the
// quiet zones and module sizes degrade past what the readers tolerate.
const minDownscaleDim = 128

// decodeBitmaps binarizes the image and decodes the resulting bitmaps. The
// single-symbol path mirrors the Java MultiFormatReader retry strategy: the
// global histogram binarizer first (fast, clean renders), then the hybrid
// binarizer (local adaptive thresholding, better for photographs). The
// multi-symbol path uses the hybrid binarizer only: the generic multi reader
// re-binarizes cropped regions through the binarizer's factory, and only the
// hybrid binarizer can be rebuilt from a cropped luminance source.
func decodeBitmaps(img image.Image, opts Options, multiSymbol bool) ([]*zxinggo.Result, error) {
	source := newLuminanceSource(img)
	zopts := toZXingOptions(opts)

	if multiSymbol {
		bitmap := zxinggo.NewBinaryBitmap(binarizer.NewHybrid(source))
		reader := multi.NewGenericMultipleBarcodeReader(zxinggo.NewMultiFormatReader())
		results, err := reader.DecodeMultiple(bitmap, zopts)
		if err == nil {
			return results, nil
		}
		if !errors.Is(err, zxinggo.ErrNotFound) {
			return nil, err
		}
		return nil, nil
	}

	bitmaps := []*zxinggo.BinaryBitmap{
		zxinggo.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)),
		zxinggo.NewBinaryBitmap(binarizer.NewHybrid(source)),
	}
	for _, bitmap := range bitmaps {
		result, err := zxinggo.Decode(bitmap, zopts)
		if err == nil {
			return []*zxinggo.Result{result}, nil
		}
		if !errors.Is(err, zxinggo.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// newLuminanceSource picks the zero-conversion path for grayscale images.
func newLuminanceSource(img image.Image) zxinggo.LuminanceSource {
	if gray, ok := img.(*image.Gray); ok {
		return zxinggo.NewGrayImageLuminanceSource(gray)
	}
	return zxinggo.NewImageLuminanceSource(img)
}

func toZXingOptions(opts Options) *zxinggo.DecodeOptions {
	zopts := &zxinggo.DecodeOptions{
		TryHarder:    opts.TryHarder,
		AlsoInverted: opts.TryInvert,
	}
	for _, f := range opts.Formats {
		if zf, ok := toZXing(f); ok {
			zopts.PossibleFormats = append(zopts.PossibleFormats, zf)
		}
	}
	return zopts
}

// toSymbol converts an engine-library result into a Symbol, translating its
// points back into original-image coordinates.
func (e *ZXing) toSymbol(r *zxinggo.Result, mapBack func(Point) Point) Symbol {
	pts := make([]Point, 0, len(r.Points))
	for _, p := range r.Points {
		pts = append(pts, mapBack(Point{X: int(p.X), Y: int(p.Y)}))
	}

	var symbology string
	if v, ok := r.Metadata[zxinggo.MetadataSymbologyIdentifier]; ok {
		symbology, _ = v.(string)
	}

	return Symbol{
		Format:              fromZXing(r.Format),
		Text:                r.Text,
		Bytes:               r.RawBytes,
		Position:            quadFromPoints(pts),
		SymbologyIdentifier: symbology,
	}
}
