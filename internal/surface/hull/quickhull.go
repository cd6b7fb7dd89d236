package hull

import (
	"fmt"

	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/golang/geo/r3"
	quickhull "github.com/markus-wa/quickhull-go/v2"
	gr3 "gonum.org/v1/gonum/spatial/r3"
)

// quickHull triangulates the 3D hull of pts with outward-facing triangles.
// The library asserts on internal inconsistencies by panicking; those are
// reported as degenerate geometry.
func quickHull(pts []gr3.Vec, epsilon float64) (tris [][3]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			tris, err = nil, fmt.Errorf("%w: quickhull: %v", surface.ErrDegenerateGeometry, r)
		}
	}()

	in := make([]r3.Vector, len(pts))
	var centroid gr3.Vec
	for i, p := range pts {
		in[i] = r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
		centroid = gr3.Add(centroid, p)
	}
	centroid = gr3.Scale(1/float64(len(pts)), centroid)

	ch := new(quickhull.QuickHull).ConvexHull(in, true, true, epsilon)
	if len(ch.Indices) < 12 {
		return nil, fmt.Errorf("%w: quickhull produced %d indices", surface.ErrDegenerateGeometry, len(ch.Indices))
	}

	tris = make([][3]int, 0, len(ch.Indices)/3)
	for i := 0; i+2 < len(ch.Indices); i += 3 {
		t := [3]int{ch.Indices[i], ch.Indices[i+1], ch.Indices[i+2]}
		a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
		n := gr3.Cross(gr3.Sub(b, a), gr3.Sub(c, a))
		if gr3.Dot(n, gr3.Sub(a, centroid)) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		tris = append(tris, t)
	}
	return tris, nil
}
