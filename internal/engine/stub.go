package engine

import "image"

// Stub is a scriptable Engine for tests. It records the last call and
// returns canned symbols or a canned error.
type Stub struct {
	Symbols []Symbol
	Err     error

	Calls    int
	LastOpts Options
	LastDims image.Rectangle

	// PanicWith, when non-nil, is raised on Decode instead of returning.
	PanicWith any
}

func (s *Stub) Decode(img image.Image, opts Options) ([]Symbol, error) {
	s.Calls++
	s.LastOpts = opts
	s.LastDims = img.Bounds()
	if s.PanicWith != nil {
		panic(s.PanicWith)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]Symbol, len(s.Symbols))
	copy(out, s.Symbols)
	return out, nil
}
