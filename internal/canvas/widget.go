package canvas

import (
	"github.com/agentboard/agentboard/internal/geometry"
)

// SelectionKind distinguishes what the user has picked.
type SelectionKind string

const (
	SelectionNone SelectionKind = ""
	SelectionNode SelectionKind = "node"
	SelectionEdge SelectionKind = "edge"
)

// Selection is the widget's current pick.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	Node string        `json:"node,omitempty"`
	From string        `json:"from,omitempty"`
	To   string        `json:"to,omitempty"`
}

// LayoutMode selects how node positions are computed.
type LayoutMode string

const (
	LayoutCircle       LayoutMode = "circle"
	LayoutHierarchical LayoutMode = "hierarchical"
)

const (
	zoomMin  = 0.5
	zoomMax  = 3.0
	zoomStep = 0.2

	edgeHitThreshold = 6.0
)

// SelectFunc is invoked whenever the selection changes. The widget has
// no knowledge of what the callback does.
type SelectFunc func(Selection)

// Widget owns the interactive state of the graph view: node positions,
// zoom level, selection, and drag state. Pointer events mutate it;
// Render projects it.
type Widget struct {
	width, height float64
	layout        LayoutMode

	graph map[string][]string // adjacency, as given
	order []string            // node ordering, fixed at SetGraph time
	edges []Edge
	meta  map[string]NodeMeta

	positions map[string]geometry.Point
	zoom      float64
	selection Selection

	dragging bool
	dragNode string

	onSelect SelectFunc
}

// NewWidget creates a widget for a viewport of the given size.
func NewWidget(width, height float64) *Widget {
	return &Widget{
		width:  width,
		height: height,
		layout: LayoutCircle,
		zoom:   1.0,
		meta:   map[string]NodeMeta{},
	}
}

// OnSelect registers the selection callback.
func (w *Widget) OnSelect(fn SelectFunc) { w.onSelect = fn }

// SetGraph loads an execution graph adjacency list plus node metadata
// and recomputes the layout. Malformed entries (a nil target list is
// the decoded form of a non-array value) are skipped silently. Node
// ordering is source order of the keys as provided.
func (w *Widget) SetGraph(order []string, graph map[string][]string, meta map[string]NodeMeta) {
	w.graph = map[string][]string{}
	w.order = nil
	w.edges = nil
	if meta == nil {
		meta = map[string]NodeMeta{}
	}
	w.meta = meta

	seen := map[string]bool{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			w.order = append(w.order, id)
		}
	}
	for _, id := range order {
		targets, ok := graph[id]
		if !ok {
			add(id)
			continue
		}
		if targets == nil {
			// Non-array adjacency entry: keep the node, drop its edges.
			add(id)
			continue
		}
		add(id)
		for _, to := range targets {
			add(to)
			w.graph[id] = append(w.graph[id], to)
			w.edges = append(w.edges, Edge{From: id, To: to})
		}
	}
	w.relayout()
	w.setSelection(Selection{})
}

// SetLayout switches between circle and hierarchical layout, fully
// recomputing node positions and discarding manual drag adjustments.
func (w *Widget) SetLayout(mode LayoutMode) {
	if mode != LayoutCircle && mode != LayoutHierarchical {
		return
	}
	w.layout = mode
	w.relayout()
}

func (w *Widget) relayout() {
	switch w.layout {
	case LayoutHierarchical:
		w.positions = geometry.HierarchicalLayout(w.order, func(id string) string {
			return w.meta[id].Role
		}, w.width, w.height)
	default:
		w.positions = geometry.CircularLayout(w.order, w.width, w.height, 0)
	}
}

// ZoomIn, ZoomOut, and ZoomReset adjust the multiplicative zoom, clamped
// to [0.5, 3.0].
func (w *Widget) ZoomIn()    { w.setZoom(w.zoom + zoomStep) }
func (w *Widget) ZoomOut()   { w.setZoom(w.zoom - zoomStep) }
func (w *Widget) ZoomReset() { w.setZoom(1.0) }

func (w *Widget) setZoom(z float64) {
	if z < zoomMin {
		z = zoomMin
	}
	if z > zoomMax {
		z = zoomMax
	}
	w.zoom = z
}

// Zoom returns the current zoom level.
func (w *Widget) Zoom() float64 { return w.zoom }

// Selection returns the current selection.
func (w *Widget) Selection() Selection { return w.selection }

// Positions returns the current node positions (live map; callers must
// not mutate it).
func (w *Widget) Positions() map[string]geometry.Point { return w.positions }

// toWorld converts viewport coordinates to layout coordinates by
// inverting the zoom-about-centre transform.
func (w *Widget) toWorld(px, py float64) (float64, float64) {
	cx, cy := w.width/2, w.height/2
	return cx + (px-cx)/w.zoom, cy + (py-cy)/w.zoom
}

// PointerDown hit-tests nodes first (radius check), then edges (segment
// test). A node hit selects the node and starts a drag; an edge hit
// selects the edge; a miss clears the selection.
func (w *Widget) PointerDown(px, py float64) {
	x, y := w.toWorld(px, py)

	for i := len(w.order) - 1; i >= 0; i-- {
		id := w.order[i]
		pos, ok := w.positions[id]
		if !ok {
			continue
		}
		if geometry.HitNode(x, y, pos, nodeRadius) {
			w.dragging = true
			w.dragNode = id
			w.setSelection(Selection{Kind: SelectionNode, Node: id})
			return
		}
	}

	for _, e := range w.edges {
		from, okF := w.positions[e.From]
		to, okT := w.positions[e.To]
		if !okF || !okT {
			continue
		}
		if geometry.PointNearSegment(x, y, from.X, from.Y, to.X, to.Y, edgeHitThreshold) {
			w.setSelection(Selection{Kind: SelectionEdge, From: e.From, To: e.To})
			return
		}
	}

	w.setSelection(Selection{})
}

// PointerMove repositions the dragged node directly under the pointer.
// No momentum, no physics.
func (w *Widget) PointerMove(px, py float64) {
	if !w.dragging {
		return
	}
	x, y := w.toWorld(px, py)
	w.positions[w.dragNode] = geometry.Point{X: x, Y: y}
}

// PointerUp ends any drag unconditionally. PointerLeave behaves the
// same way.
func (w *Widget) PointerUp() {
	w.dragging = false
	w.dragNode = ""
}

// PointerLeave ends any drag, matching PointerUp.
func (w *Widget) PointerLeave() { w.PointerUp() }

// Dragging reports whether a node drag is in progress.
func (w *Widget) Dragging() bool { return w.dragging }

func (w *Widget) setSelection(sel Selection) {
	if w.selection == sel {
		return
	}
	w.selection = sel
	if w.onSelect != nil {
		w.onSelect(sel)
	}
}

// Frame snapshots the widget state for rendering. The maps are copied
// so the snapshot stays valid while pointer events keep mutating the
// widget.
func (w *Widget) Frame() Frame {
	positions := make(map[string]geometry.Point, len(w.positions))
	for id, p := range w.positions {
		positions[id] = p
	}
	meta := make(map[string]NodeMeta, len(w.meta))
	for id, m := range w.meta {
		meta[id] = m
	}
	return Frame{
		Width:     w.width,
		Height:    w.height,
		Positions: positions,
		Edges:     append([]Edge(nil), w.edges...),
		Meta:      meta,
		Selection: w.selection,
		Zoom:      w.zoom,
	}
}
