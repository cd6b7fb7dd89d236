package hull

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

type planePoint struct {
	u, v float64
	idx  int
}

// planarFan triangulates the 2D convex hull of a flat cloud as a fan rooted
// at its first hull vertex. Points within flat of a hull edge are not
// hull vertices.
func planarFan(pts []r3.Vec, s simplex, flat float64) [][3]int {
	origin := pts[s.a]
	e1 := s.dir
	ac := r3.Sub(pts[s.c], origin)
	e2 := r3.Unit(r3.Sub(ac, r3.Scale(r3.Dot(ac, e1), e1)))

	proj := make([]planePoint, len(pts))
	for i, p := range pts {
		d := r3.Sub(p, origin)
		proj[i] = planePoint{u: r3.Dot(d, e1), v: r3.Dot(d, e2), idx: i}
	}

	ring := monotoneChain(proj, flat)
	if len(ring) < 3 {
		return nil
	}
	tris := make([][3]int, 0, len(ring)-2)
	for i := 1; i+1 < len(ring); i++ {
		tris = append(tris, [3]int{ring[0].idx, ring[i].idx, ring[i+1].idx})
	}
	return tris
}

// monotoneChain returns the convex hull of pts in counter-clockwise order
// using Andrew's algorithm.
func monotoneChain(pts []planePoint, flat float64) []planePoint {
	sorted := make([]planePoint, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].u != sorted[j].u {
			return sorted[i].u < sorted[j].u
		}
		if sorted[i].v != sorted[j].v {
			return sorted[i].v < sorted[j].v
		}
		return sorted[i].idx < sorted[j].idx
	})

	var hull []planePoint
	build := func(p planePoint, floor int) {
		for len(hull) >= floor+2 && !leftTurn(hull[len(hull)-2], hull[len(hull)-1], p, flat) {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	for _, p := range sorted {
		build(p, 0)
	}
	lower := len(hull) - 1
	for i := len(sorted) - 2; i >= 0; i-- {
		build(sorted[i], lower)
	}
	return hull[:len(hull)-1]
}

// leftTurn reports whether a lies more than flat to the right of the
// directed line o->b, which makes o->a->b a strict left turn.
func leftTurn(o, a, b planePoint, flat float64) bool {
	cross := (a.u-o.u)*(b.v-o.v) - (a.v-o.v)*(b.u-o.u)
	du, dv := b.u-o.u, b.v-o.v
	return cross > flat*math.Hypot(du, dv)
}
