package service

import (
	"fmt"
	"math"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"github.com/banshee-data/pointmesh/internal/surface"
)

// cloudFromRequest converts request points to a cloud, rejecting
// non-finite coordinates.
func cloudFromRequest(req *meshpb.TriangulateRequest) (surface.PointCloud, error) {
	if req == nil {
		return nil, nil
	}
	cloud := make(surface.PointCloud, len(req.Points))
	for i, p := range req.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, fmt.Errorf("point %d has a non-finite coordinate (%g, %g, %g)", i, p.X, p.Y, p.Z)
		}
		cloud[i] = surface.Point3{X: p.X, Y: p.Y, Z: p.Z}
	}
	return cloud, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// meshToProto copies mesh into its wire form, preserving vertex order and
// triangle index values.
func meshToProto(mesh surface.Mesh) meshpb.Mesh {
	out := meshpb.Mesh{
		Vertices:  make([]meshpb.Point, len(mesh.Vertices)),
		Triangles: make([]meshpb.MeshTriangle, 0, len(mesh.Triangles)),
	}
	for i, v := range mesh.Vertices {
		out.Vertices[i] = meshpb.Point{X: v.X, Y: v.Y, Z: v.Z}
	}
	for _, t := range mesh.Triangles {
		out.Triangles = append(out.Triangles, meshpb.MeshTriangle{
			VertexIndices: [3]uint32{uint32(t[0]), uint32(t[1]), uint32(t[2])},
		})
	}
	return out
}

// PointsFromCloud converts a cloud to request points.
func PointsFromCloud(cloud surface.PointCloud) []meshpb.Point {
	out := make([]meshpb.Point, len(cloud))
	for i, p := range cloud {
		out[i] = meshpb.Point{X: p.X, Y: p.Y, Z: p.Z}
	}
	return out
}
