package meshpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	// Triangulator_Triangulate_FullMethodName is the gRPC method path of Triangulate.
	Triangulator_Triangulate_FullMethodName = "/pointmesh.Triangulator/Triangulate"
)

// TriangulatorClient is the client API for the Triangulator service.
type TriangulatorClient interface {
	Triangulate(ctx context.Context, in *TriangulateRequest, opts ...grpc.CallOption) (*TriangulateResponse, error)
}

type triangulatorClient struct {
	cc grpc.ClientConnInterface
}

// NewTriangulatorClient returns a client calling the service over cc.
func NewTriangulatorClient(cc grpc.ClientConnInterface) TriangulatorClient {
	return &triangulatorClient{cc}
}

func (c *triangulatorClient) Triangulate(ctx context.Context, in *TriangulateRequest, opts ...grpc.CallOption) (*TriangulateResponse, error) {
	out := dynamicpb.NewMessage(responseDesc)
	if err := c.cc.Invoke(ctx, Triangulator_Triangulate_FullMethodName, in.ToMessage(), out, opts...); err != nil {
		return nil, err
	}
	resp := new(TriangulateResponse)
	if err := resp.FromMessage(out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// TriangulatorServer is the server API for the Triangulator service.
// Implementations must embed UnimplementedTriangulatorServer.
type TriangulatorServer interface {
	Triangulate(context.Context, *TriangulateRequest) (*TriangulateResponse, error)
	mustEmbedUnimplementedTriangulatorServer()
}

// UnimplementedTriangulatorServer answers every method with
// codes.Unimplemented. Embed it by value.
type UnimplementedTriangulatorServer struct{}

// Triangulate returns codes.Unimplemented.
func (UnimplementedTriangulatorServer) Triangulate(context.Context, *TriangulateRequest) (*TriangulateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Triangulate not implemented")
}
func (UnimplementedTriangulatorServer) mustEmbedUnimplementedTriangulatorServer() {}

// RegisterTriangulatorServer registers srv with s.
func RegisterTriangulatorServer(s grpc.ServiceRegistrar, srv TriangulatorServer) {
	s.RegisterService(&Triangulator_ServiceDesc, srv)
}

func _Triangulator_Triangulate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := dynamicpb.NewMessage(requestDesc)
	if err := dec(in); err != nil {
		return nil, err
	}
	call := func(ctx context.Context, req any) (any, error) {
		r := new(TriangulateRequest)
		if err := r.FromMessage(req.(*dynamicpb.Message)); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(TriangulatorServer).Triangulate(ctx, r)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			resp = new(TriangulateResponse)
		}
		return resp.ToMessage(), nil
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Triangulator_Triangulate_FullMethodName,
	}
	return interceptor(ctx, in, info, call)
}

// Triangulator_ServiceDesc is the grpc.ServiceDesc for the Triangulator
// service.
var Triangulator_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pointmesh.Triangulator",
	HandlerType: (*TriangulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Triangulate",
			Handler:    _Triangulator_Triangulate_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pointmesh.proto",
}
