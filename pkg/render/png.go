package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/deckfit/pkg/fonts"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale     float64
	thumbnail int
	outlines  bool
}

// WithPNGScale sets the output scale relative to the 1920×1080 canvas
// (default 1).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithThumbnail resizes the output to the given width, keeping the aspect
// ratio, with a Lanczos filter.
func WithThumbnail(width int) PNGOption {
	return func(r *pngRenderer) { r.thumbnail = width }
}

// WithPNGOutlines draws the content bounds and marks overflowing text.
func WithPNGOutlines() PNGOption {
	return func(r *pngRenderer) { r.outlines = true }
}

// RenderPNG rasterizes the frame.
func RenderPNG(f Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}

	w, h := f.size()
	dc := gg.NewContext(int(w*r.scale+0.5), int(h*r.scale+0.5))
	dc.Scale(r.scale, r.scale)
	dc.SetHexColor(colorCanvas)
	dc.Clear()

	for _, b := range f.Boxes {
		switch {
		case hasClass(b, vdom.ClassContent):
			if r.outlines {
				dc.SetHexColor(colorOutline)
				dc.SetLineWidth(1)
				dc.SetDash(8, 6)
				dc.DrawRectangle(b.X, b.Y, b.W, b.H)
				dc.Stroke()
				dc.SetDash()
			}
		case hasClass(b, vdom.ClassCard):
			dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, cornerRadius(b))
			dc.SetHexColor(colorCard)
			dc.FillPreserve()
			dc.SetHexColor(colorCardLine)
			dc.SetLineWidth(1)
			dc.Stroke()
		case hasClass(b, vdom.ClassCardIcon):
			cx, cy, rad := b.X+b.W/2, b.Y+b.H/2, min(b.W, b.H)/2
			dc.DrawCircle(cx, cy, rad)
			dc.SetHexColor(colorIcon)
			dc.Fill()
			if label := iconLabel(b.Text); label != "" {
				dc.SetFontFace(faces.get(true, rad))
				dc.SetHexColor(colorText)
				dc.DrawStringAnchored(label, cx, cy, 0.5, 0.35)
			}
		case b.Kind == vdom.KindText.String():
			drawText(dc, faces, b, r.outlines)
		}
	}

	img := dc.Image()
	if r.thumbnail > 0 {
		img = imaging.Resize(img, r.thumbnail, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(dc *gg.Context, faces *faceCache, b vdom.Rect, outlines bool) {
	if len(b.Lines) == 0 || b.FontSize <= 0 {
		return
	}
	dc.SetFontFace(faces.get(b.Bold, b.FontSize))
	if hasClass(b, vdom.ClassCardDesc) {
		dc.SetHexColor(colorMuted)
	} else {
		dc.SetHexColor(colorText)
	}
	lh := b.H / float64(len(b.Lines))
	for i, line := range b.Lines {
		dc.DrawString(line, b.X, baseline(b, lh, i))
	}
	if outlines && b.Overflow {
		dc.SetColor(color.RGBA{R: 0xcf, G: 0x22, B: 0x2e, A: 0xff})
		dc.SetLineWidth(3)
		dc.DrawLine(b.X, b.Y+b.H, b.X+b.W, b.Y+b.H)
		dc.Stroke()
	}
}

// faceCache holds truetype faces per weight and size for one render.
// Faces keep glyph caches and are not safe for concurrent use; the parsed
// fonts are, so they are shared.
type faceCache struct {
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[string]font.Face
}

var (
	fontsOnce   sync.Once
	parsedFonts [2]*truetype.Font
	fontsErr    error
)

func newFaceCache() (*faceCache, error) {
	fontsOnce.Do(func() {
		for i, data := range [][]byte{fonts.RegularTTF(), fonts.BoldTTF()} {
			f, err := truetype.Parse(data)
			if err != nil {
				fontsErr = fmt.Errorf("parse font: %w", err)
				return
			}
			parsedFonts[i] = f
		}
	})
	if fontsErr != nil {
		return nil, fontsErr
	}
	return &faceCache{regular: parsedFonts[0], bold: parsedFonts[1], faces: make(map[string]font.Face)}, nil
}

func (c *faceCache) get(bold bool, size float64) font.Face {
	key := strconv.FormatBool(bold) + "/" + strconv.FormatFloat(size, 'f', 2, 64)
	if f, ok := c.faces[key]; ok {
		return f
	}
	parsed := c.regular
	if bold {
		parsed = c.bold
	}
	f := truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	c.faces[key] = f
	return f
}
