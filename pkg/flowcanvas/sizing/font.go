package sizing

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontMeasurer lays text out with real glyph advances from an OpenType
// face. Words wrap greedily; a word wider than the line is broken between
// runes.
type FontMeasurer struct {
	mu         sync.Mutex // font.Face is not safe for concurrent use
	face       font.Face
	lineHeight float64
}

// Compile-time interface check.
var _ Measurer = (*FontMeasurer)(nil)

// NewFontMeasurer loads the embedded Go Regular face at the given point
// size (72 DPI, so one point is one canvas unit).
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	if size <= 0 {
		size = 14
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return &FontMeasurer{
		face:       face,
		lineHeight: fixedToFloat(face.Metrics().Height),
	}, nil
}

// LineHeight is the face's line height in canvas units.
func (m *FontMeasurer) LineHeight() float64 {
	return m.lineHeight
}

// Close releases the font face.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.face == nil {
		return nil
	}
	err := m.face.Close()
	m.face = nil
	return err
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, width float64) (Measurement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.face == nil {
		return Measurement{}, ErrNoFace
	}
	if text == "" {
		return Measurement{}, nil
	}

	limit := fixed.Int26_6(width * 64)
	space := font.MeasureString(m.face, " ")

	lines := 0
	for _, para := range strings.Split(text, "\n") {
		lines += m.wrap(para, limit, space)
	}
	return Measurement{Lines: lines, Height: float64(lines) * m.lineHeight}, nil
}

// wrap counts the lines one paragraph occupies.
func (m *FontMeasurer) wrap(para string, limit, space fixed.Int26_6) int {
	words := strings.FieldsFunc(para, unicode.IsSpace)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	var cur fixed.Int26_6
	for _, w := range words {
		ww := font.MeasureString(m.face, w)
		switch {
		case cur == 0 && ww <= limit:
			cur = ww
		case cur > 0 && cur+space+ww <= limit:
			cur += space + ww
		case ww <= limit:
			lines++
			cur = ww
		default:
			if cur > 0 {
				lines++
			}
			var n int
			n, cur = m.breakWord(w, limit)
			lines += n - 1
		}
	}
	return lines
}

// breakWord splits an overlong word across lines and returns the number of
// lines used and the width of the last one.
func (m *FontMeasurer) breakWord(w string, limit fixed.Int26_6) (int, fixed.Int26_6) {
	lines := 1
	var cur fixed.Int26_6
	prev := rune(-1)
	for _, r := range w {
		adv, ok := m.face.GlyphAdvance(r)
		if !ok {
			adv, _ = m.face.GlyphAdvance('?')
		}
		if prev >= 0 {
			adv += m.face.Kern(prev, r)
		}
		if cur > 0 && cur+adv > limit {
			lines++
			cur = 0
		}
		cur += adv
		prev = r
	}
	return lines, cur
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
