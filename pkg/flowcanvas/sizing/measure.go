// Package sizing derives node box dimensions from their text.
//
// The Engine owns the sizing rules; the actual text layout is delegated to a
// Measurer so a headless heuristic and a real font backend are
// interchangeable.
package sizing

import (
	"errors"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrNoFace indicates a FontMeasurer was used without a loaded font face.
var ErrNoFace = errors.New("font face not loaded")

// Measurement is the laid-out size of a block of text.
type Measurement struct {
	// Lines is the number of wrapped lines.
	Lines int
	// Height is the total height of those lines in canvas units.
	Height float64
}

// Measurer lays out text at a fixed width.
type Measurer interface {
	Measure(text string, width float64) (Measurement, error)
}

// HeuristicMeasurer estimates layout from character counts. It never fails
// and needs no font, which makes it the fallback and the test measurer.
type HeuristicMeasurer struct {
	// CharWidth is the width of one terminal cell of text.
	CharWidth float64
	// LineHeight is the height of one line.
	LineHeight float64
}

// Compile-time interface check.
var _ Measurer = HeuristicMeasurer{}

// Measure implements Measurer. Each paragraph takes at least one line;
// East Asian wide characters count as two cells.
func (h HeuristicMeasurer) Measure(text string, width float64) (Measurement, error) {
	if text == "" {
		return Measurement{}, nil
	}

	charWidth := h.CharWidth
	if charWidth <= 0 {
		charWidth = 8
	}
	perLine := int(math.Floor(width / charWidth))
	if perLine < 1 {
		perLine = 1
	}

	lines := 0
	for _, para := range strings.Split(text, "\n") {
		cells := runewidth.StringWidth(para)
		if cells == 0 {
			lines++
			continue
		}
		lines += (cells + perLine - 1) / perLine
	}
	return Measurement{Lines: lines, Height: float64(lines) * h.LineHeight}, nil
}
