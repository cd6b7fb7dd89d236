package hull

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/pointmesh/internal/surface"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultDedupTolerance merges points closer than this fraction of the
	// cloud's bounding box diagonal.
	DefaultDedupTolerance = 1e-9
	// DefaultFlatTolerance is the relative thickness below which a cloud is
	// treated as planar or collinear, and a triangle as zero-area.
	DefaultFlatTolerance = 1e-9
	// DefaultEpsilon is the relative epsilon passed to quickhull.
	DefaultEpsilon = 1e-12
)

// Kind reports which hull case a reconstruction fell into.
type Kind int

const (
	KindNone       Kind = iota // No hull was built
	KindVolumetric             // Closed triangulated 3D hull
	KindPlanar                 // Fan triangulation of a flat polygon
	KindCollinear              // Segment only, no triangles
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindVolumetric:
		return "volumetric"
	case KindPlanar:
		return "planar"
	case KindCollinear:
		return "collinear"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Params configures hull reconstruction.
type Params struct {
	DedupTolerance float64
	FlatTolerance  float64
	Epsilon        float64
}

// DefaultParams returns the production hull parameters.
func DefaultParams() Params {
	return Params{
		DedupTolerance: DefaultDedupTolerance,
		FlatTolerance:  DefaultFlatTolerance,
		Epsilon:        DefaultEpsilon,
	}
}

// Result is the triangulated hull. Polygons index into Vertices.
type Result struct {
	Vertices    surface.PointCloud
	SourceIndex []int // Input cloud index of each vertex
	Polygons    []surface.Polygon
	Kind        Kind
	Distinct    int // Points left after merging duplicates
	Duplicates  int // Points merged into an earlier coincident point
	Degenerate  int // Zero-area triangles discarded
}

// minScale floors the tolerance scale so a cloud of coincident points still
// gets well-defined comparisons.
const minScale = 0x1p-52

// Reconstruct computes the convex hull of cloud. It fails with
// surface.ErrDegenerateGeometry only when fewer than three distinct points
// remain after merging duplicates; Result.Kind is then KindNone.
//
// Tolerances in p are relative to the bounding box diagonal, so the result
// does not depend on the cloud's units.
func Reconstruct(cloud surface.PointCloud, p Params) (Result, error) {
	scale := math.Max(minScale, cloud.Diagonal())
	flat := p.FlatTolerance * scale

	keep, err := dedupe(cloud, p.DedupTolerance*scale)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Distinct:   len(keep),
		Duplicates: len(cloud) - len(keep),
	}
	if len(keep) < 3 {
		return res, fmt.Errorf("%w: %d distinct of %d", surface.ErrDegenerateGeometry, len(keep), len(cloud))
	}

	pts := make([]r3.Vec, len(keep))
	for i, src := range keep {
		pts[i] = cloud[src].Vec()
	}

	kind, tris, err := triangulate(pts, flat, p.Epsilon)
	if err != nil {
		return res, err
	}
	res.Kind = kind

	if res.Kind == KindCollinear {
		a, b := farthestPair(pts)
		res.Vertices, res.SourceIndex, res.Polygons = compact(cloud, keep, []int{a, b}, nil)
		return res, nil
	}

	valid := tris[:0]
	for _, t := range tris {
		if degenerateTriangle(pts[t[0]], pts[t[1]], pts[t[2]], flat) {
			res.Degenerate++
			continue
		}
		valid = append(valid, t)
	}

	res.Vertices, res.SourceIndex, res.Polygons = compact(cloud, keep, nil, valid)
	return res, nil
}

// triangulate classifies pts and triangulates their hull. Triangle indices
// refer to pts.
func triangulate(pts []r3.Vec, flat, epsilon float64) (Kind, [][3]int, error) {
	s := initialSimplex(pts)
	switch {
	case s.lineDist <= flat:
		return KindCollinear, nil, nil
	case s.planeDist <= flat:
		return KindPlanar, planarFan(pts, s, flat), nil
	}

	tris, err := quickHull(pts, epsilon)
	if err != nil {
		return KindVolumetric, nil, err
	}
	return KindVolumetric, tris, nil
}

// compact keeps only the referenced points, orders them by source index and
// rewrites triangles (or, for collinear hulls, the endpoint list) to match.
func compact(cloud surface.PointCloud, keep []int, endpoints []int, tris [][3]int) (surface.PointCloud, []int, []surface.Polygon) {
	used := make(map[int]struct{})
	for _, e := range endpoints {
		used[e] = struct{}{}
	}
	for _, t := range tris {
		for _, v := range t {
			used[v] = struct{}{}
		}
	}

	order := make([]int, 0, len(used))
	for v := range used {
		order = append(order, v)
	}
	sort.Slice(order, func(i, j int) bool { return keep[order[i]] < keep[order[j]] })

	remap := make(map[int]int, len(order))
	vertices := make(surface.PointCloud, len(order))
	source := make([]int, len(order))
	for i, v := range order {
		remap[v] = i
		source[i] = keep[v]
		vertices[i] = cloud[keep[v]]
	}

	polygons := make([]surface.Polygon, len(tris))
	for i, t := range tris {
		polygons[i] = surface.Polygon{Vertices: []int{remap[t[0]], remap[t[1]], remap[t[2]]}}
	}
	return vertices, source, polygons
}

// degenerateTriangle reports whether the triangle's height over its longest
// edge is within flat.
func degenerateTriangle(a, b, c r3.Vec, flat float64) bool {
	longest := math.Max(r3.Norm(r3.Sub(b, a)), math.Max(r3.Norm(r3.Sub(c, b)), r3.Norm(r3.Sub(a, c))))
	if longest <= flat {
		return true
	}
	twiceArea := r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
	return twiceArea/longest <= flat
}
