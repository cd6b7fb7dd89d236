package export

import (
	"testing"

	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestExport(t *testing.T) {
	vertices := testutil.Tetrahedron()

	tests := []struct {
		name     string
		polygons []surface.Polygon
		want     []surface.Triangle
		skipped  []int
	}{
		{
			name:     "verbatim",
			polygons: []surface.Polygon{{Vertices: []int{0, 2, 1}}, {Vertices: []int{3, 1, 2}}},
			want:     []surface.Triangle{{0, 2, 1}, {3, 1, 2}},
		},
		{
			name:     "too few indices",
			polygons: []surface.Polygon{{Vertices: []int{0, 1}}, {}, {Vertices: []int{1, 2, 3}}},
			want:     []surface.Triangle{{1, 2, 3}},
			skipped:  []int{0, 1},
		},
		{
			name:     "out of bounds",
			polygons: []surface.Polygon{{Vertices: []int{0, 4, 1}}, {Vertices: []int{-1, 0, 1, 2}}},
			want:     []surface.Triangle{{0, 1, 2}},
			skipped:  []int{0},
		},
		{
			name:     "repeated index",
			polygons: []surface.Polygon{{Vertices: []int{2, 2, 1}}, {Vertices: []int{3, 3, 0, 3, 1}}},
			want:     []surface.Triangle{{3, 0, 1}},
			skipped:  []int{0},
		},
		{
			name:     "longer polygon keeps first three",
			polygons: []surface.Polygon{{Vertices: []int{3, 2, 1, 0}}},
			want:     []surface.Triangle{{3, 2, 1}},
		},
		{
			name: "no polygons",
			want: []surface.Triangle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, stats := Export(vertices, tt.polygons)

			if diff := cmp.Diff(tt.want, mesh.Triangles); diff != "" {
				t.Errorf("triangles mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(vertices, mesh.Vertices); diff != "" {
				t.Errorf("vertices mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.skipped, stats.SkippedPolygons); diff != "" {
				t.Errorf("skipped mismatch (-want +got):\n%s", diff)
			}
			if stats.Polygons != len(tt.polygons) {
				t.Errorf("Polygons = %d, want %d", stats.Polygons, len(tt.polygons))
			}
			if stats.Exported+stats.Skipped != stats.Polygons {
				t.Errorf("Exported %d + Skipped %d != Polygons %d", stats.Exported, stats.Skipped, stats.Polygons)
			}
			if !mesh.Valid() {
				t.Error("exported mesh is not valid")
			}
		})
	}
}

func TestExportCopiesVertices(t *testing.T) {
	vertices := testutil.Tetrahedron()
	mesh, _ := Export(vertices, nil)
	vertices[0].X = 42
	if mesh.Vertices[0].X != 0 {
		t.Errorf("mesh shares vertex storage with input")
	}
}

func TestExportEmpty(t *testing.T) {
	mesh, stats := Export(nil, []surface.Polygon{{Vertices: []int{0, 1, 2}}})
	if len(mesh.Vertices) != 0 || len(mesh.Triangles) != 0 {
		t.Errorf("got %d vertices, %d triangles; want none", len(mesh.Vertices), len(mesh.Triangles))
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}
