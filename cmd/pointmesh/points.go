package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
)

// pointsFile is the JSON input format: {"points": [[x, y, z], ...]}.
type pointsFile struct {
	Points [][3]float64 `json:"points"`
}

// meshFile is the JSON output format.
type meshFile struct {
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
	RunID     string       `json:"run_id,omitempty"`
	Vertices  [][3]float64 `json:"vertices"`
	Triangles [][3]uint32  `json:"triangles"`
}

func readPoints(path string) ([]meshpb.Point, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open points file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodePoints(r)
}

func decodePoints(r io.Reader) ([]meshpb.Point, error) {
	var in pointsFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse points JSON: %w", err)
	}
	out := make([]meshpb.Point, len(in.Points))
	for i, p := range in.Points {
		out[i] = meshpb.Point{X: p[0], Y: p[1], Z: p[2]}
	}
	return out, nil
}

func writeMesh(w io.Writer, resp *meshpb.TriangulateResponse) error {
	out := meshFile{
		Success:   resp.Success,
		Error:     resp.Error,
		RunID:     resp.RunID,
		Vertices:  make([][3]float64, len(resp.Mesh.Vertices)),
		Triangles: make([][3]uint32, len(resp.Mesh.Triangles)),
	}
	for i, v := range resp.Mesh.Vertices {
		out.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, t := range resp.Mesh.Triangles {
		out.Triangles[i] = t.VertexIndices
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
