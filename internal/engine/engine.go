package engine

import "image"

// Point is an integer point in image pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Quadrilateral is the 4-corner position of a symbol, clockwise starting at
// the top-left corner.
type Quadrilateral struct {
	TopLeft     Point `json:"topLeft"`
	TopRight    Point `json:"topRight"`
	BottomRight Point `json:"bottomRight"`
	BottomLeft  Point `json:"bottomLeft"`
}

// Options controls a single decode request.
type Options struct {
	// TryHarder enables more exhaustive searching at increased latency.
	TryHarder bool

	// TryRotate enables rotated decode passes.
	TryRotate bool

	// TryInvert enables decoding of light-on-dark symbols.
	TryInvert bool

	// TryDownscale enables a half-resolution decode pass.
	TryDownscale bool

	// Formats constrains the set of symbologies to search. Empty means all.
	Formats []Format

	// MaxSymbols caps the number of symbols returned. The engine truncates;
	// callers forward the value unchanged.
	MaxSymbols int
}

// Symbol is one located and (attempted) decoded barcode instance.
type Symbol struct {
	Format              Format
	Text                string
	Bytes               []byte
	Error               string
	Position            Quadrilateral
	SymbologyIdentifier string
}

// Engine decodes barcode symbols from an image. Implementations must not
// retain the image beyond the call and must be safe for use from a single
// goroutine; an implementation with no mutable state is safe to share.
type Engine interface {
	Decode(img image.Image, opts Options) ([]Symbol, error)
}

// quadFromPoints derives the clockwise quadrilateral enclosing the reported
// result points. 1-D readers report the two scan-line endpoints, which
// yields a degenerate (zero-height) quadrilateral.
func quadFromPoints(pts []Point) Quadrilateral {
	if len(pts) == 0 {
		return Quadrilateral{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Quadrilateral{
		TopLeft:     Point{X: minX, Y: minY},
		TopRight:    Point{X: maxX, Y: minY},
		BottomRight: Point{X: maxX, Y: maxY},
		BottomLeft:  Point{X: minX, Y: maxY},
	}
}
