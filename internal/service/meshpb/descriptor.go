package meshpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File is the compiled pointmesh.proto.
var File protoreflect.FileDescriptor

var (
	pointDesc    protoreflect.MessageDescriptor
	requestDesc  protoreflect.MessageDescriptor
	triangleDesc protoreflect.MessageDescriptor
	meshDesc     protoreflect.MessageDescriptor
	responseDesc protoreflect.MessageDescriptor

	pointX, pointY, pointZ protoreflect.FieldDescriptor
	requestPoints          protoreflect.FieldDescriptor
	triangleIndices        protoreflect.FieldDescriptor
	meshTriangles          protoreflect.FieldDescriptor
	meshVertices           protoreflect.FieldDescriptor
	responseMesh           protoreflect.FieldDescriptor
	responseSuccess        protoreflect.FieldDescriptor
	responseError          protoreflect.FieldDescriptor
	responseRunID          protoreflect.FieldDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), nil)
	if err != nil {
		panic(fmt.Sprintf("meshpb: invalid pointmesh.proto descriptor: %v", err))
	}
	File = fd

	msgs := fd.Messages()
	pointDesc = msgs.ByName("Point")
	requestDesc = msgs.ByName("TriangulateRequest")
	triangleDesc = msgs.ByName("MeshTriangle")
	meshDesc = msgs.ByName("Mesh")
	responseDesc = msgs.ByName("TriangulateResponse")

	pointX = pointDesc.Fields().ByName("x")
	pointY = pointDesc.Fields().ByName("y")
	pointZ = pointDesc.Fields().ByName("z")
	requestPoints = requestDesc.Fields().ByName("points")
	triangleIndices = triangleDesc.Fields().ByName("vertex_indices")
	meshTriangles = meshDesc.Fields().ByName("triangles")
	meshVertices = meshDesc.Fields().ByName("vertices")
	responseMesh = responseDesc.Fields().ByName("mesh")
	responseSuccess = responseDesc.Fields().ByName("success")
	responseError = responseDesc.Fields().ByName("error")
	responseRunID = responseDesc.Fields().ByName("run_id")
}

// fileDescriptorProto mirrors pointmesh.proto.
func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	var (
		optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
		repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

		double  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE.Enum()
		uint32T = descriptorpb.FieldDescriptorProto_TYPE_UINT32.Enum()
		boolT   = descriptorpb.FieldDescriptorProto_TYPE_BOOL.Enum()
		str     = descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()
		message = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
	)
	field := func(name, jsonName string, num int32, label *descriptorpb.FieldDescriptorProto_Label, typ *descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
		f := &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			JsonName: proto.String(jsonName),
			Number:   proto.Int32(num),
			Label:    label,
			Type:     typ,
		}
		if typeName != "" {
			f.TypeName = proto.String(typeName)
		}
		return f
	}
	msg := func(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
		return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("pointmesh.proto"),
		Package: proto.String("pointmesh"),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/banshee-data/pointmesh/internal/service/meshpb"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			msg("Point",
				field("x", "x", 1, optional, double, ""),
				field("y", "y", 2, optional, double, ""),
				field("z", "z", 3, optional, double, ""),
			),
			msg("TriangulateRequest",
				field("points", "points", 1, repeated, message, ".pointmesh.Point"),
			),
			msg("MeshTriangle",
				field("vertex_indices", "vertexIndices", 1, repeated, uint32T, ""),
			),
			msg("Mesh",
				field("triangles", "triangles", 1, repeated, message, ".pointmesh.MeshTriangle"),
				field("vertices", "vertices", 2, repeated, message, ".pointmesh.Point"),
			),
			msg("TriangulateResponse",
				field("mesh", "mesh", 1, optional, message, ".pointmesh.Mesh"),
				field("success", "success", 2, optional, boolT, ""),
				field("error", "error", 3, optional, str, ""),
				field("run_id", "runId", 4, optional, str, ""),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Triangulator"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       proto.String("Triangulate"),
				InputType:  proto.String(".pointmesh.TriangulateRequest"),
				OutputType: proto.String(".pointmesh.TriangulateResponse"),
			}},
		}},
	}
}
