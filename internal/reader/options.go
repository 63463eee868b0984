package reader

import (
	"github.com/symscan/symscan/internal/engine"
)

// Options is the caller-facing option surface. It is deliberately small:
// a single effort knob, a textual format filter, and a result cap.
type Options struct {
	// TryHarder trades latency for detection rate. It also enables the
	// rotated, inverted and downscaled decode passes.
	TryHarder bool

	// Formats is a comma-separated list of symbology names ("QRCode,EAN-13").
	// Empty searches all supported symbologies.
	Formats string

	// MaxSymbols caps how many symbols a multi-symbol decode returns.
	// Values below 1 are treated as 1.
	MaxSymbols int
}

// engineOptions expands the caller options into the full engine option set.
// The extra search passes are all driven by TryHarder; they are not
// independently exposed.
func (o Options) engineOptions() (engine.Options, error) {
	formats, err := engine.ParseFormats(o.Formats)
	if err != nil {
		return engine.Options{}, err
	}
	max := o.MaxSymbols
	if max < 1 {
		max = 1
	}
	return engine.Options{
		TryHarder:    o.TryHarder,
		TryRotate:    o.TryHarder,
		TryInvert:    o.TryHarder,
		TryDownscale: o.TryHarder,
		Formats:      formats,
		MaxSymbols:   max,
	}, nil
}
