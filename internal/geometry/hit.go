package geometry

import "math"

// HitNode reports whether the point (px, py) lands on a node of the
// given radius centred at c. The boundary is inclusive, so a point at
// exactly radius distance always hits.
func HitNode(px, py float64, c Point, radius float64) bool {
	dx, dy := px-c.X, py-c.Y
	return dx*dx+dy*dy <= radius*radius
}

// PointNearSegment reports whether (px, py) lies within threshold of the
// segment (x1,y1)-(x2,y2). It combines a perpendicular
// distance-to-infinite-line test with containment in the segment's
// bounding box inflated by threshold. That is an approximation, not true
// segment distance: points past an endpoint but within both checks
// register as hits. Coarse click targets tolerate it.
func PointNearSegment(px, py, x1, y1, x2, y2, threshold float64) bool {
	minX, maxX := math.Min(x1, x2)-threshold, math.Max(x1, x2)+threshold
	minY, maxY := math.Min(y1, y2)-threshold, math.Max(y1, y2)+threshold
	if px < minX || px > maxX || py < minY || py > maxY {
		return false
	}

	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px-x1, py-y1) <= threshold
	}
	dist := math.Abs(dy*px-dx*py+x2*y1-y2*x1) / length
	return dist <= threshold
}
