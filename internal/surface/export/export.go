// Package export converts hull output into the externally visible mesh.
package export

import "github.com/banshee-data/pointmesh/internal/surface"

// Stats counts what Export did with each polygon. Skipped polygons are
// recoverable anomalies; their positions in the input are listed in
// SkippedPolygons.
type Stats struct {
	Polygons        int
	Exported        int
	Skipped         int
	SkippedPolygons []int
}

// Export copies vertices verbatim and turns each polygon into one triangle.
//
// A polygon index is valid when it is in bounds and has not already appeared
// in the same polygon. Polygons with fewer than three valid indices are
// skipped. Otherwise the first three valid indices form the triangle, with
// index values unchanged.
func Export(vertices surface.PointCloud, polygons []surface.Polygon) (surface.Mesh, Stats) {
	stats := Stats{Polygons: len(polygons)}
	mesh := surface.Mesh{
		Vertices:  vertices.Clone(),
		Triangles: make([]surface.Triangle, 0, len(polygons)),
	}
	if mesh.Vertices == nil {
		mesh.Vertices = surface.PointCloud{}
	}

	for i, poly := range polygons {
		tri, ok := firstTriangle(poly, len(vertices))
		if !ok {
			stats.Skipped++
			stats.SkippedPolygons = append(stats.SkippedPolygons, i)
			continue
		}
		mesh.Triangles = append(mesh.Triangles, tri)
		stats.Exported++
	}
	return mesh, stats
}

func firstTriangle(poly surface.Polygon, n int) (surface.Triangle, bool) {
	var tri surface.Triangle
	found := 0
	for _, idx := range poly.Vertices {
		if idx < 0 || idx >= n {
			continue
		}
		dup := false
		for k := 0; k < found; k++ {
			if tri[k] == idx {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		tri[found] = idx
		found++
		if found == 3 {
			return tri, true
		}
	}
	return tri, false
}
