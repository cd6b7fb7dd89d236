package hull

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// simplex is the widest triangle found by the initial extreme point search,
// plus the thickness of the cloud along the two directions that decide
// whether a 3D hull exists.
type simplex struct {
	a, b, c   int
	dir       r3.Vec  // Unit vector from a to b
	lineDist  float64 // Largest distance of any point from line ab
	planeDist float64 // Largest distance of any point from plane abc
}

func initialSimplex(pts []r3.Vec) simplex {
	var s simplex

	var best float64
	for i, p := range pts {
		if d := r3.Norm2(r3.Sub(p, pts[s.a])); d > best {
			best, s.b = d, i
		}
	}
	if best == 0 {
		return s
	}
	origin := pts[s.a]
	s.dir = r3.Unit(r3.Sub(pts[s.b], origin))

	for i, p := range pts {
		if d := lineDistance(r3.Sub(p, origin), s.dir); d > s.lineDist {
			s.lineDist, s.c = d, i
		}
	}
	if s.lineDist == 0 {
		return s
	}

	normal := r3.Unit(r3.Cross(r3.Sub(pts[s.b], origin), r3.Sub(pts[s.c], origin)))
	for _, p := range pts {
		if d := math.Abs(r3.Dot(r3.Sub(p, origin), normal)); d > s.planeDist {
			s.planeDist = d
		}
	}
	return s
}

// lineDistance returns the distance of offset v from the line through the
// origin along unit vector dir.
func lineDistance(v, dir r3.Vec) float64 {
	return r3.Norm(r3.Sub(v, r3.Scale(r3.Dot(v, dir), dir)))
}

// farthestPair returns the endpoints of a collinear cloud, lowest index
// first.
func farthestPair(pts []r3.Vec) (int, int) {
	s := initialSimplex(pts)
	lo, hi := s.a, s.a
	var loT, hiT float64
	for i, p := range pts {
		t := r3.Dot(r3.Sub(p, pts[s.a]), s.dir)
		if t < loT {
			loT, lo = t, i
		}
		if t > hiT {
			hiT, hi = t, i
		}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
