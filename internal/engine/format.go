package engine

import (
	"fmt"
	"strings"
	"sync"

	zxinggo "github.com/ericlevine/zxinggo"
)

// Format identifies a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatAztec
	FormatCodabar
	FormatCode39
	FormatCode128
	FormatDataMatrix
	FormatEAN8
	FormatEAN13
	FormatITF
	FormatPDF417
	FormatQRCode
	FormatUPCA
	FormatUPCE
)

// formatName maps each format to its canonical display name.
var formatName = map[Format]string{
	FormatAztec:      "Aztec",
	FormatCodabar:    "Codabar",
	FormatCode39:     "Code39",
	FormatCode128:    "Code128",
	FormatDataMatrix: "DataMatrix",
	FormatEAN8:       "EAN-8",
	FormatEAN13:      "EAN-13",
	FormatITF:        "ITF",
	FormatPDF417:     "PDF417",
	FormatQRCode:     "QRCode",
	FormatUPCA:       "UPC-A",
	FormatUPCE:       "UPC-E",
}

// String returns the canonical name of the format, or "" for FormatUnknown.
func (f Format) String() string {
	return formatName[f]
}

var (
	lookupOnce   sync.Once
	lookupByName map[string]Format
)

// normalizeFormatName folds case and strips the separators users commonly
// include in format names ("EAN-13", "ean_13", "ean 13" all match).
func normalizeFormatName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// nameLookup returns the normalized-name lookup table, built at most once
// and read-only afterwards.
func nameLookup() map[string]Format {
	lookupOnce.Do(func() {
		lookupByName = make(map[string]Format, len(formatName))
		for f, name := range formatName {
			lookupByName[normalizeFormatName(name)] = f
		}
	})
	return lookupByName
}

// ParseFormat resolves a single format name. Matching ignores case and the
// "-", "_" and " " separators.
func ParseFormat(s string) (Format, bool) {
	f, ok := nameLookup()[normalizeFormatName(s)]
	return f, ok
}

// ParseFormats parses an empty-or-comma-separated format filter. An empty
// filter means "all supported formats" and yields a nil slice. Any
// unrecognized name fails the whole filter.
func ParseFormats(filter string) ([]Format, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}
	parts := strings.Split(filter, ",")
	formats := make([]Format, 0, len(parts))
	for _, part := range parts {
		f, ok := ParseFormat(part)
		if !ok {
			return nil, fmt.Errorf("invalid barcode format: %q", strings.TrimSpace(part))
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// AllFormats returns every supported format in canonical order.
func AllFormats() []Format {
	return []Format{
		FormatAztec,
		FormatCodabar,
		FormatCode39,
		FormatCode128,
		FormatDataMatrix,
		FormatEAN8,
		FormatEAN13,
		FormatITF,
		FormatPDF417,
		FormatQRCode,
		FormatUPCA,
		FormatUPCE,
	}
}

// toZXing maps a Format to the engine library's format constant.
func toZXing(f Format) (zxinggo.Format, bool) {
	switch f {
	case FormatAztec:
		return zxinggo.FormatAztec, true
	case FormatCodabar:
		return zxinggo.FormatCodabar, true
	case FormatCode39:
		return zxinggo.FormatCode39, true
	case FormatCode128:
		return zxinggo.FormatCode128, true
	case FormatDataMatrix:
		return zxinggo.FormatDataMatrix, true
	case FormatEAN8:
		return zxinggo.FormatEAN8, true
	case FormatEAN13:
		return zxinggo.FormatEAN13, true
	case FormatITF:
		return zxinggo.FormatITF, true
	case FormatPDF417:
		return zxinggo.FormatPDF417, true
	case FormatQRCode:
		return zxinggo.FormatQRCode, true
	case FormatUPCA:
		return zxinggo.FormatUPCA, true
	case FormatUPCE:
		return zxinggo.FormatUPCE, true
	default:
		return 0, false
	}
}

// fromZXing maps the engine library's format constant back to a Format.
func fromZXing(f zxinggo.Format) Format {
	switch f {
	case zxinggo.FormatAztec:
		return FormatAztec
	case zxinggo.FormatCodabar:
		return FormatCodabar
	case zxinggo.FormatCode39:
		return FormatCode39
	case zxinggo.FormatCode128:
		return FormatCode128
	case zxinggo.FormatDataMatrix:
		return FormatDataMatrix
	case zxinggo.FormatEAN8:
		return FormatEAN8
	case zxinggo.FormatEAN13:
		return FormatEAN13
	case zxinggo.FormatITF:
		return FormatITF
	case zxinggo.FormatPDF417:
		return FormatPDF417
	case zxinggo.FormatQRCode:
		return FormatQRCode
	case zxinggo.FormatUPCA:
		return FormatUPCA
	case zxinggo.FormatUPCE:
		return FormatUPCE
	default:
		return FormatUnknown
	}
}
