package reader

import "github.com/symscan/symscan/internal/engine"

// Record is the marshaled outcome for one symbol, or for a failed request.
// A failed request is reported as a record whose Error field is set; the
// remaining fields are zero. A request that found nothing produces no
// records at all.
type Record struct {
	Format              string               `json:"format"`
	Text                string               `json:"text"`
	Bytes               []byte               `json:"bytes"`
	Error               string               `json:"error"`
	Position            engine.Quadrilateral `json:"position"`
	SymbologyIdentifier string               `json:"symbologyIdentifier"`
}

// Decoded reports whether the record carries a successfully decoded symbol.
func (r Record) Decoded() bool {
	return r.Error == "" && r.Format != ""
}

// recordFromSymbol copies the symbol into a Record. The raw bytes are
// duplicated so the record stays valid after the engine reuses its buffers.
func recordFromSymbol(s engine.Symbol) Record {
	var raw []byte
	if len(s.Bytes) > 0 {
		raw = make([]byte, len(s.Bytes))
		copy(raw, s.Bytes)
	}
	return Record{
		Format:              s.Format.String(),
		Text:                s.Text,
		Bytes:               raw,
		Error:               s.Error,
		Position:            s.Position,
		SymbologyIdentifier: s.SymbologyIdentifier,
	}
}

func errorRecord(msg string) Record {
	return Record{Error: msg}
}
