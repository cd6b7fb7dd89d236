// Package testutil provides shared test utilities and point-cloud fixtures.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/banshee-data/pointmesh/internal/surface"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// Tetrahedron returns four non-coplanar points with unit edge scale.
func Tetrahedron() surface.PointCloud {
	return surface.PointCloud{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

// CubeCorners returns the eight corners of an axis-aligned cube of the given
// side length with one corner at the origin.
func CubeCorners(side float64) surface.PointCloud {
	cloud := make(surface.PointCloud, 0, 8)
	for _, x := range []float64{0, side} {
		for _, y := range []float64{0, side} {
			for _, z := range []float64{0, side} {
				cloud = append(cloud, surface.Point3{X: x, Y: y, Z: z})
			}
		}
	}
	return cloud
}

// Sphere returns n points spread evenly over a sphere using a Fibonacci
// lattice. The output is deterministic.
func Sphere(n int, radius float64) surface.PointCloud {
	cloud := make(surface.PointCloud, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		cloud[i] = surface.Point3{
			X: radius * r * math.Cos(theta),
			Y: radius * y,
			Z: radius * r * math.Sin(theta),
		}
	}
	return cloud
}

// NoisySphere returns Sphere(n, radius) with each point displaced radially by
// uniform noise in [-noise, noise]. The seed makes the output reproducible.
func NoisySphere(n int, radius, noise float64, seed int64) surface.PointCloud {
	rng := rand.New(rand.NewSource(seed))
	cloud := Sphere(n, radius)
	for i, p := range cloud {
		s := 1 + (rng.Float64()*2-1)*noise/radius
		cloud[i] = surface.Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
	}
	return cloud
}

// PlanarGrid returns an nx by ny grid of points in the z=0 plane.
func PlanarGrid(nx, ny int, spacing float64) surface.PointCloud {
	cloud := make(surface.PointCloud, 0, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			cloud = append(cloud, surface.Point3{X: float64(i) * spacing, Y: float64(j) * spacing})
		}
	}
	return cloud
}

// Repeat returns a cloud in which each input point appears copies times in
// a row. It models a sensor sampling the same location repeatedly.
func Repeat(cloud surface.PointCloud, copies int) surface.PointCloud {
	out := make(surface.PointCloud, 0, len(cloud)*copies)
	for _, p := range cloud {
		for k := 0; k < copies; k++ {
			out = append(out, p)
		}
	}
	return out
}
