package reader

import (
	"image"
	"log/slog"

	"github.com/symscan/symscan/internal/engine"
)

// Failure messages surfaced in Record.Error. These are part of the wire
// contract and must stay stable.
const (
	ErrMsgLoadingImage = "Error loading image"
	ErrMsgBadPixmap    = "Invalid pixel buffer"
	ErrMsgUnknown      = "Unknown error"
)

// Reader binds the boundary layer to a barcode engine.
type Reader struct {
	engine engine.Engine
}

// New creates a Reader on top of the given engine.
func New(e engine.Engine) *Reader {
	return &Reader{engine: e}
}

// NewDefault creates a Reader on the built-in ZXing engine.
func NewDefault() *Reader {
	return New(engine.NewZXing())
}

// DecodeImage decodes compressed image bytes and returns the first symbol
// found. When nothing is found the zero Record is returned; when the request
// fails the Record carries the failure in its Error field.
func (r *Reader) DecodeImage(data []byte, opts Options) Record {
	opts.MaxSymbols = 1
	return first(r.DecodeImageMulti(data, opts))
}

// DecodeImageMulti decodes compressed image bytes and returns up to
// opts.MaxSymbols symbols. A failed request returns exactly one record with
// its Error field set; a clean decode that finds nothing returns an empty
// slice.
func (r *Reader) DecodeImageMulti(data []byte, opts Options) []Record {
	img, err := decodeImageBytes(data)
	if err != nil {
		return []Record{errorRecord(ErrMsgLoadingImage)}
	}
	return r.run(img, opts)
}

// DecodePixmap decodes a raw pixel buffer and returns the first symbol found.
func (r *Reader) DecodePixmap(pm Pixmap, opts Options) Record {
	opts.MaxSymbols = 1
	return first(r.DecodePixmapMulti(pm, opts))
}

// DecodePixmapMulti decodes a raw pixel buffer, with the same result shape
// as DecodeImageMulti.
func (r *Reader) DecodePixmapMulti(pm Pixmap, opts Options) []Record {
	img, err := pm.image()
	if err != nil {
		return []Record{errorRecord(ErrMsgBadPixmap)}
	}
	return r.run(img, opts)
}

// run normalizes options and invokes the engine once. Option errors are
// reported without touching the engine.
func (r *Reader) run(img image.Image, opts Options) []Record {
	eopts, err := opts.engineOptions()
	if err != nil {
		return []Record{errorRecord(err.Error())}
	}
	return r.invoke(img, eopts)
}

// invoke is the single engine call site. Engine errors and panics both
// degrade to an error record so callers never see a request blow up.
func (r *Reader) invoke(img image.Image, eopts engine.Options) (records []Record) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("barcode engine panic", "panic", p)
			records = []Record{errorRecord(ErrMsgUnknown)}
		}
	}()

	symbols, err := r.engine.Decode(img, eopts)
	if err != nil {
		return []Record{errorRecord(err.Error())}
	}
	records = make([]Record, 0, len(symbols))
	for _, s := range symbols {
		records = append(records, recordFromSymbol(s))
	}
	return records
}

func first(records []Record) Record {
	if len(records) > 0 {
		return records[0]
	}
	return Record{}
}
