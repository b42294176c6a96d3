package printing

import (
	"fmt"
	"strings"
)

// PaperSize is an ISO 216 sheet
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4"
	PaperSizeA5 PaperSize = "A5"
	PaperSizeA6 PaperSize = "A6"
)

// DefaultPaperSize fits a receipt on one sheet
const DefaultPaperSize = PaperSizeA6

var paperDimensions = map[PaperSize][2]float64{
	PaperSizeA4: {210, 297},
	PaperSizeA5: {148, 210},
	PaperSizeA6: {105, 148},
}

// ParsePaperSize accepts a case-insensitive size name. Empty input yields
// the default size.
func ParsePaperSize(s string) (PaperSize, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultPaperSize, nil
	}
	size := PaperSize(s)
	if !size.IsValid() {
		return "", fmt.Errorf("unsupported paper size %q", s)
	}
	return size, nil
}

// IsValid reports whether the size is supported
func (p PaperSize) IsValid() bool {
	_, ok := paperDimensions[p]
	return ok
}

// Dimensions returns width and height in millimetres
func (p PaperSize) Dimensions() (width, height float64) {
	d := paperDimensions[p]
	return d[0], d[1]
}

// Margins are page margins in millimetres
type Margins struct {
	Top, Right, Bottom, Left float64
}

// MarginsFor returns margins scaled to the sheet
func MarginsFor(p PaperSize) Margins {
	if p == PaperSizeA4 {
		return Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
	}
	return Margins{Top: 6, Right: 6, Bottom: 6, Left: 6}
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
