package service

import (
	"context"
	"fmt"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a remote Triangulator service.
type Client struct {
	conn *grpc.ClientConn
	rpc  meshpb.TriangulatorClient
}

// NewClient connects to target without transport security. Extra options
// are applied after the defaults.
func NewClient(target string, opts ...grpc.DialOption) (*Client, error) {
	maxMsg := DefaultConfig().MaxMessageBytes
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMsg),
			grpc.MaxCallSendMsgSize(maxMsg),
		),
	}
	conn, err := grpc.NewClient(target, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", target, err)
	}
	return &Client{conn: conn, rpc: meshpb.NewTriangulatorClient(conn)}, nil
}

// Triangulate sends points and returns the service's response. A response
// with Success=false is not an error.
func (c *Client) Triangulate(ctx context.Context, points []meshpb.Point) (*meshpb.TriangulateResponse, error) {
	return c.rpc.Triangulate(ctx, &meshpb.TriangulateRequest{Points: points})
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
