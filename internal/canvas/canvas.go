// Package canvas renders the execution graph and drives the interactive
// widget that owns node positions, zoom, selection, and drag state.
package canvas

import (
	"fmt"
	"strings"
)

// Canvas is the drawing surface the renderer mutates. Implementations
// hold nothing but the pixel (or markup) buffer itself.
type Canvas interface {
	// Begin resets the surface to an empty frame of the given size.
	Begin(width, height float64)
	Line(x1, y1, x2, y2 float64, stroke string, width float64)
	Circle(cx, cy, r float64, fill, stroke string, strokeWidth float64)
	Polygon(points [][2]float64, fill string)
	Text(x, y float64, s string, size float64, fill, anchor string)
}

// SVG is a Canvas that accumulates SVG markup.
type SVG struct {
	buf    strings.Builder
	width  float64
	height float64
}

func NewSVG() *SVG { return &SVG{} }

func (s *SVG) Begin(width, height float64) {
	s.buf.Reset()
	s.width, s.height = width, height
}

func (s *SVG) Line(x1, y1, x2, y2 float64, stroke string, width float64) {
	fmt.Fprintf(&s.buf,
		`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x1, y1, x2, y2, stroke, width)
}

func (s *SVG) Circle(cx, cy, r float64, fill, stroke string, strokeWidth float64) {
	fmt.Fprintf(&s.buf,
		`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		cx, cy, r, fill, stroke, strokeWidth)
}

func (s *SVG) Polygon(points [][2]float64, fill string) {
	var coords []string
	for _, p := range points {
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", p[0], p[1]))
	}
	fmt.Fprintf(&s.buf, `<polygon points="%s" fill="%s"/>`+"\n", strings.Join(coords, " "), fill)
}

func (s *SVG) Text(x, y float64, text string, size float64, fill, anchor string) {
	fmt.Fprintf(&s.buf,
		`<text x="%.1f" y="%.1f" font-size="%.1f" font-family="sans-serif" fill="%s" text-anchor="%s">%s</text>`+"\n",
		x, y, size, fill, anchor, escapeXML(text))
}

// Document returns the complete SVG document for the current frame.
func (s *SVG) Document() string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n%s</svg>\n",
		s.width, s.height, s.width, s.height, s.buf.String())
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
