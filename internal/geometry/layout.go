// Package geometry provides the pure layout and hit-testing math used by
// the execution graph widget.
package geometry

import (
	"math"
	"strings"
)

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CircularLayout places nodes evenly on a circle centred in a viewport
// of the given size. A non-positive radius selects the default of
// 0.35 × min(width, height). The result is deterministic for a given
// node ordering.
func CircularLayout(nodeIDs []string, width, height, radius float64) map[string]Point {
	positions := make(map[string]Point, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return positions
	}
	if radius <= 0 {
		radius = 0.35 * math.Min(width, height)
	}
	cx, cy := width/2, height/2
	step := 2 * math.Pi / float64(len(nodeIDs))
	for i, id := range nodeIDs {
		angle := step * float64(i)
		positions[id] = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return positions
}

// HierarchicalLayout places supervisor nodes on an upper tier
// (y = 0.25·height) and every other node on a lower tier
// (y = 0.75·height), spaced evenly along x. roleOf may return "" when no
// role metadata exists; classification then falls back to a substring
// match on the node ID, which can misfire on names like
// "supervisor_helper" (see IsSupervisorHeuristic).
func HierarchicalLayout(nodeIDs []string, roleOf func(string) string, width, height float64) map[string]Point {
	positions := make(map[string]Point, len(nodeIDs))
	var top, bottom []string
	for _, id := range nodeIDs {
		role := ""
		if roleOf != nil {
			role = roleOf(id)
		}
		if IsSupervisorHeuristic(id, role) {
			top = append(top, id)
		} else {
			bottom = append(bottom, id)
		}
	}
	place := func(ids []string, y float64) {
		if len(ids) == 0 {
			return
		}
		spacing := width / float64(len(ids)+1)
		for i, id := range ids {
			positions[id] = Point{X: spacing * float64(i+1), Y: y}
		}
	}
	place(top, 0.25*height)
	place(bottom, 0.75*height)
	return positions
}

// IsSupervisorHeuristic classifies a node as a supervisor. With role
// metadata present the decision is exact; without it the node ID is
// scanned for "supervisor", an approximate string heuristic with
// false-positive potential.
func IsSupervisorHeuristic(nodeID, role string) bool {
	if role != "" {
		return role == "supervisor"
	}
	return strings.Contains(strings.ToLower(nodeID), "supervisor")
}
