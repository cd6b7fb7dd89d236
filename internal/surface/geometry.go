package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds returns the axis-aligned bounding box of the cloud.
// An empty cloud yields two zero points.
func (c PointCloud) Bounds() (min, max Point3) {
	if len(c) == 0 {
		return Point3{}, Point3{}
	}
	min, max = c[0], c[0]
	for _, p := range c[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Diagonal returns the length of the bounding box diagonal.
func (c PointCloud) Diagonal() float64 {
	min, max := c.Bounds()
	return r3.Norm(r3.Sub(max.Vec(), min.Vec()))
}

// Centroid returns the arithmetic mean of the cloud.
func (c PointCloud) Centroid() Point3 {
	if len(c) == 0 {
		return Point3{}
	}
	var sum r3.Vec
	for _, p := range c {
		sum = r3.Add(sum, p.Vec())
	}
	return FromVec(r3.Scale(1/float64(len(c)), sum))
}

// TriangleArea returns the area of the triangle spanned by a, b and c.
func TriangleArea(a, b, c Point3) float64 {
	ab := r3.Sub(b.Vec(), a.Vec())
	ac := r3.Sub(c.Vec(), a.Vec())
	return 0.5 * r3.Norm(r3.Cross(ab, ac))
}
