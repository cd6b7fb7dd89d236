package surface

import "gonum.org/v1/gonum/spatial/r3"

// Point3 is a Cartesian coordinate triple. It has no identity beyond its
// position within the cloud that holds it.
type Point3 struct {
	X, Y, Z float64
}

// Vec converts the point to a gonum r3 vector for arithmetic.
func (p Point3) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// FromVec converts a gonum r3 vector back to a Point3.
func FromVec(v r3.Vec) Point3 { return Point3{X: v.X, Y: v.Y, Z: v.Z} }

// PointCloud is an ordered sequence of points. The position of a point in
// the slice is its implicit index, referenced by spatial indexes, polygons
// and triangles built over the cloud.
//
// A cloud is owned by whichever stage currently holds it. Stages return new
// clouds rather than mutating their input.
type PointCloud []Point3

// Clone returns an independent copy of the cloud.
func (c PointCloud) Clone() PointCloud {
	if c == nil {
		return nil
	}
	out := make(PointCloud, len(c))
	copy(out, c)
	return out
}

// Polygon is a variable-length list of vertex indices, as produced by the
// hull reconstructor. Only polygons with at least three distinct in-bounds
// indices can be exported as triangles.
type Polygon struct {
	Vertices []int
}

// Triangle is an ordered triple of vertex indices into a Mesh's vertex list.
type Triangle [3]int

// Mesh is a vertex list plus triangles indexing into it.
// Every index of every triangle is < len(Vertices).
type Mesh struct {
	Vertices  PointCloud
	Triangles []Triangle
}

// Valid reports whether every triangle index is in bounds and the three
// indices of each triangle are pairwise distinct.
func (m Mesh) Valid() bool {
	n := len(m.Vertices)
	for _, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return false
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return false
		}
	}
	return true
}

// EdgeCount returns the number of distinct undirected edges in the mesh.
func (m Mesh) EdgeCount() int {
	edges := make(map[[2]int]struct{}, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
		}
	}
	return len(edges)
}

// EulerCharacteristic returns V - E + F, counting only vertices referenced
// by at least one triangle. A closed genus-0 surface yields 2.
func (m Mesh) EulerCharacteristic() int {
	used := make(map[int]struct{}, len(m.Vertices))
	for _, t := range m.Triangles {
		for _, idx := range t {
			used[idx] = struct{}{}
		}
	}
	return len(used) - m.EdgeCount() + len(m.Triangles)
}
