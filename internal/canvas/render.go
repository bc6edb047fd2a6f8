package canvas

import (
	"math"
	"sort"

	"github.com/agentboard/agentboard/internal/geometry"
)

// NodeMeta is the per-node display metadata the renderer annotates
// nodes with.
type NodeMeta struct {
	Label string `json:"label"`
	Role  string `json:"role"`
	Model string `json:"model,omitempty"`
	Team  string `json:"team,omitempty"`
}

// Edge is one directed delegation edge.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Frame is everything a single render needs. Render is a pure function
// of it; calling it on every state change is safe.
type Frame struct {
	Width     float64                   `json:"width"`
	Height    float64                   `json:"height"`
	Positions map[string]geometry.Point `json:"positions"`
	Edges     []Edge                    `json:"edges"`
	Meta      map[string]NodeMeta       `json:"meta"`
	Selection Selection                 `json:"selection"`
	Zoom      float64                   `json:"zoom"`
}

const (
	nodeRadius     = 24.0
	arrowSize      = 8.0
	bgColor        = "#0f172a"
	edgeColor      = "#64748b"
	edgeSelected   = "#f59e0b"
	labelColor     = "#e2e8f0"
	emptyTextColor = "#94a3b8"
)

// roleColor maps an agent role to its node fill. Unknown roles share the
// worker color.
func roleColor(role string) string {
	switch role {
	case "supervisor":
		return "#6366f1"
	case "peer":
		return "#10b981"
	case "hub":
		return "#ec4899"
	case "rag":
		return "#f97316"
	default: // worker and anything unclassified
		return "#0ea5e9"
	}
}

// Render draws the frame onto the canvas. Nodes without a position are
// skipped; an empty graph produces an explicit empty-state frame rather
// than a blank or an error.
func Render(c Canvas, f Frame) {
	c.Begin(f.Width, f.Height)

	if len(f.Positions) == 0 {
		c.Text(f.Width/2, f.Height/2, "No execution graph data", 16, emptyTextColor, "middle")
		return
	}

	zoom := f.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	// Zoom about the viewport centre.
	cx, cy := f.Width/2, f.Height/2
	tx := func(p geometry.Point) (float64, float64) {
		return cx + (p.X-cx)*zoom, cy + (p.Y-cy)*zoom
	}

	for _, e := range f.Edges {
		from, okF := f.Positions[e.From]
		to, okT := f.Positions[e.To]
		if !okF || !okT {
			continue
		}
		x1, y1 := tx(from)
		x2, y2 := tx(to)

		dx, dy := x2-x1, y2-y1
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Stop the line short of the target node's radius so the
		// arrowhead sits on the rim.
		r := nodeRadius * zoom
		ex := x2 - dx/length*r
		ey := y2 - dy/length*r

		stroke, width := edgeColor, 1.5
		if f.Selection.Kind == SelectionEdge && f.Selection.From == e.From && f.Selection.To == e.To {
			stroke, width = edgeSelected, 3.0
		}
		c.Line(x1, y1, ex, ey, stroke, width)
		drawArrowhead(c, x1, y1, ex, ey, stroke)
	}

	// Stable draw order keeps output deterministic for identical frames.
	ids := make([]string, 0, len(f.Positions))
	for id := range f.Positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		x, y := tx(f.Positions[id])
		meta := f.Meta[id]
		label := meta.Label
		if label == "" {
			label = id
		}

		r := nodeRadius * zoom
		if f.Selection.Kind == SelectionNode && f.Selection.Node == id {
			// Selection glow: a wider translucent ring under the node.
			c.Circle(x, y, r+6, "none", edgeSelected, 4)
		}
		c.Circle(x, y, r, roleColor(meta.Role), "#1e293b", 2)
		c.Text(x, y+r+14, label, 12*zoom, labelColor, "middle")
		if meta.Model != "" {
			c.Text(x, y+r+28, meta.Model, 9*zoom, emptyTextColor, "middle")
		}
	}
}

func drawArrowhead(c Canvas, x1, y1, x2, y2 float64, fill string) {
	angle := math.Atan2(y2-y1, x2-x1)
	left := angle + math.Pi - math.Pi/7
	right := angle + math.Pi + math.Pi/7
	c.Polygon([][2]float64{
		{x2, y2},
		{x2 + arrowSize*math.Cos(left), y2 + arrowSize*math.Sin(left)},
		{x2 + arrowSize*math.Cos(right), y2 + arrowSize*math.Sin(right)},
	}, fill)
}
