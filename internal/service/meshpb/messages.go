package meshpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Point is a 3D coordinate.
type Point struct {
	X, Y, Z float64
}

// TriangulateRequest carries the input point cloud.
type TriangulateRequest struct {
	Points []Point
}

// MeshTriangle holds three indices into Mesh.Vertices.
type MeshTriangle struct {
	VertexIndices [3]uint32
}

// Mesh is the reconstructed surface.
type Mesh struct {
	Triangles []MeshTriangle
	Vertices  []Point
}

// TriangulateResponse carries the mesh, or Success=false with an empty mesh
// and a description in Error.
type TriangulateResponse struct {
	Mesh    Mesh
	Success bool
	Error   string
	RunID   string
}

// ToMessage returns r as a pointmesh.TriangulateRequest proto message.
func (r *TriangulateRequest) ToMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(requestDesc)
	appendPoints(m.Mutable(requestPoints).List(), r.Points)
	return m
}

// FromMessage replaces r with the contents of a pointmesh.TriangulateRequest.
func (r *TriangulateRequest) FromMessage(m protoreflect.Message) error {
	if err := checkType(m, requestDesc); err != nil {
		return err
	}
	*r = TriangulateRequest{Points: readPoints(m.Get(requestPoints).List())}
	return nil
}

// Marshal encodes r in protobuf wire format.
func (r *TriangulateRequest) Marshal() ([]byte, error) {
	return proto.Marshal(r.ToMessage())
}

// Unmarshal decodes protobuf wire data into r.
func (r *TriangulateRequest) Unmarshal(b []byte) error {
	m := dynamicpb.NewMessage(requestDesc)
	if err := proto.Unmarshal(b, m); err != nil {
		return err
	}
	return r.FromMessage(m)
}

// ToMessage returns r as a pointmesh.TriangulateResponse proto message.
func (r *TriangulateResponse) ToMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(responseDesc)
	mesh := m.Mutable(responseMesh).Message()
	tris := mesh.Mutable(meshTriangles).List()
	for _, t := range r.Mesh.Triangles {
		v := tris.NewElement()
		indices := v.Message().Mutable(triangleIndices).List()
		for _, idx := range t.VertexIndices {
			indices.Append(protoreflect.ValueOfUint32(idx))
		}
		tris.Append(v)
	}
	appendPoints(mesh.Mutable(meshVertices).List(), r.Mesh.Vertices)
	m.Set(responseSuccess, protoreflect.ValueOfBool(r.Success))
	m.Set(responseError, protoreflect.ValueOfString(r.Error))
	m.Set(responseRunID, protoreflect.ValueOfString(r.RunID))
	return m
}

// FromMessage replaces r with the contents of a pointmesh.TriangulateResponse.
// Every triangle must carry exactly three vertex indices.
func (r *TriangulateResponse) FromMessage(m protoreflect.Message) error {
	if err := checkType(m, responseDesc); err != nil {
		return err
	}
	mesh := m.Get(responseMesh).Message()
	out := TriangulateResponse{
		Success: m.Get(responseSuccess).Bool(),
		Error:   m.Get(responseError).String(),
		RunID:   m.Get(responseRunID).String(),
	}
	if tris := mesh.Get(meshTriangles).List(); tris.Len() > 0 {
		out.Mesh.Triangles = make([]MeshTriangle, tris.Len())
		for i := range out.Mesh.Triangles {
			indices := tris.Get(i).Message().Get(triangleIndices).List()
			if indices.Len() != 3 {
				return fmt.Errorf("mesh triangle %d has %d vertex indices, want 3", i, indices.Len())
			}
			for j := range 3 {
				out.Mesh.Triangles[i].VertexIndices[j] = uint32(indices.Get(j).Uint())
			}
		}
	}
	out.Mesh.Vertices = readPoints(mesh.Get(meshVertices).List())
	*r = out
	return nil
}

// Marshal encodes r in protobuf wire format.
func (r *TriangulateResponse) Marshal() ([]byte, error) {
	return proto.Marshal(r.ToMessage())
}

// Unmarshal decodes protobuf wire data into r.
func (r *TriangulateResponse) Unmarshal(b []byte) error {
	m := dynamicpb.NewMessage(responseDesc)
	if err := proto.Unmarshal(b, m); err != nil {
		return err
	}
	return r.FromMessage(m)
}

func appendPoints(l protoreflect.List, pts []Point) {
	for _, p := range pts {
		v := l.NewElement()
		pm := v.Message()
		pm.Set(pointX, protoreflect.ValueOfFloat64(p.X))
		pm.Set(pointY, protoreflect.ValueOfFloat64(p.Y))
		pm.Set(pointZ, protoreflect.ValueOfFloat64(p.Z))
		l.Append(v)
	}
}

func readPoints(l protoreflect.List) []Point {
	if l.Len() == 0 {
		return nil
	}
	out := make([]Point, l.Len())
	for i := range out {
		pm := l.Get(i).Message()
		out[i] = Point{
			X: pm.Get(pointX).Float(),
			Y: pm.Get(pointY).Float(),
			Z: pm.Get(pointZ).Float(),
		}
	}
	return out
}

func checkType(m protoreflect.Message, want protoreflect.MessageDescriptor) error {
	if got := m.Descriptor().FullName(); got != want.FullName() {
		return fmt.Errorf("meshpb: got %s message, want %s", got, want.FullName())
	}
	return nil
}
