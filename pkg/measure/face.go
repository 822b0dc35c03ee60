package measure

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Face measures text with glyph advances from an OpenType font.
// Faces are created lazily per size and cached; Face is safe for
// concurrent use.
type Face struct {
	parsed  *opentype.Font
	leading float64

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFace parses data as an OpenType or TrueType font. Empty data selects
// the embedded Go Regular font.
func NewFace(data []byte) (*Face, error) {
	if len(data) == 0 {
		data = goregular.TTF
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Face{parsed: parsed, leading: DefaultLineHeight, faces: make(map[float64]font.Face)}, nil
}

// MustGoRegular returns a Face backed by Go Regular. The font is compiled
// into the binary, so parsing cannot fail.
func MustGoRegular() *Face {
	f, err := NewFace(nil)
	if err != nil {
		panic(err)
	}
	return f
}

// Width implements Measurer. Sizes that cannot produce a face measure as 0.
func (f *Face) Width(text string, sizePx float64) float64 {
	if text == "" || sizePx <= 0 {
		return 0
	}
	face, err := f.face(sizePx)
	if err != nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	adv := font.MeasureString(face, text)
	return float64(adv) / 64
}

// LineHeight implements Measurer.
func (f *Face) LineHeight(sizePx float64) float64 {
	return f.leading * sizePx
}

func (f *Face) face(sizePx float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[sizePx]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %.1fpx: %w", sizePx, err)
	}
	f.faces[sizePx] = face
	return face, nil
}

// Close releases every cached face.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for size, face := range f.faces {
		face.Close()
		delete(f.faces, size)
	}
	return nil
}
