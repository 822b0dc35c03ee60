package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/deckfit/pkg/fonts"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

// Preview palette.
const (
	colorCanvas   = "#f7f7f2"
	colorCard     = "#ffffff"
	colorCardLine = "#d6d6cf"
	colorIcon     = "#e4e9f2"
	colorText     = "#1f2328"
	colorMuted    = "#57606a"
	colorOutline  = "#0969da"
	colorOverflow = "#cf222e"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont bool
	outlines  bool
}

// WithEmbeddedFont embeds the Go fonts as data URLs so the preview renders
// with the faces it was measured with.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithOutlines draws the content bounds and marks overflowing text.
func WithOutlines() SVGOption { return func(r *svgRenderer) { r.outlines = true } }

// RenderSVG renders the frame as a wireframe SVG.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := f.size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="%s"/>`+"\n", w, h, colorCanvas)

	for _, b := range f.Boxes {
		switch {
		case hasClass(b, vdom.ClassContent):
			if r.outlines {
				fmt.Fprintf(&buf, `  <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-dasharray="8 6"/>`+"\n",
					vdom.ClassContent, b.X, b.Y, b.W, b.H, colorOutline)
			}
		case hasClass(b, vdom.ClassCard):
			fmt.Fprintf(&buf, `  <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s"/>`+"\n",
				vdom.ClassCard, b.X, b.Y, b.W, b.H, cornerRadius(b), colorCard, colorCardLine)
		case hasClass(b, vdom.ClassCardIcon):
			renderIconSVG(&buf, b)
		case b.Kind == vdom.KindText.String():
			r.renderText(&buf, b)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderDefs(buf *bytes.Buffer) {
	family := fonts.FallbackFontFamily
	buf.WriteString("  <defs>\n    <style>\n")
	if r.embedFont {
		fmt.Fprintf(buf, "      @font-face { font-family: '%s'; font-weight: normal; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.RegularBase64())
		fmt.Fprintf(buf, "      @font-face { font-family: '%s'; font-weight: bold; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.BoldBase64())
	}
	fmt.Fprintf(buf, "      text { font-family: %s; fill: %s; white-space: pre; }\n", family, colorText)
	fmt.Fprintf(buf, "      .%s { fill: %s; }\n", vdom.ClassCardDesc, colorMuted)
	buf.WriteString("    </style>\n  </defs>\n")
}

func renderIconSVG(buf *bytes.Buffer, b vdom.Rect) {
	cx, cy, rad := b.X+b.W/2, b.Y+b.H/2, min(b.W, b.H)/2
	fmt.Fprintf(buf, `  <circle class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", vdom.ClassCardIcon, cx, cy, rad, colorIcon)
	if label := iconLabel(b.Text); label != "" {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.2f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			cx, cy, rad, escapeXML(label))
	}
}

func (r svgRenderer) renderText(buf *bytes.Buffer, b vdom.Rect) {
	if len(b.Lines) == 0 || b.FontSize <= 0 {
		return
	}
	weight := "normal"
	if b.Bold {
		weight = "bold"
	}
	lh := b.H / float64(len(b.Lines))
	fmt.Fprintf(buf, `  <text class="%s" font-size="%.2f" font-weight="%s">`, strings.Join(b.Classes, " "), b.FontSize, weight)
	for i, line := range b.Lines {
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, b.X, baseline(b, lh, i), escapeXML(line))
	}
	buf.WriteString("</text>\n")
	if r.outlines && b.Overflow {
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="3"/>`+"\n",
			b.X, b.Y+b.H, b.X+b.W, b.Y+b.H, colorOverflow)
	}
}

// baseline places line i of a text box so the glyphs sit centered in
// their line box.
func baseline(b vdom.Rect, lineHeight float64, i int) float64 {
	return b.Y + float64(i)*lineHeight + (lineHeight+b.FontSize*0.7)/2
}

func cornerRadius(b vdom.Rect) float64 {
	return min(16, b.W/12)
}

// iconLabel returns the first letter of an icon name, upper-cased.
func iconLabel(icon string) string {
	for _, r := range strings.TrimSpace(icon) {
		return strings.ToUpper(string(r))
	}
	return ""
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
