package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/banshee-data/pointmesh/internal/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

type slowReconstructor struct {
	delay time.Duration
}

func (s slowReconstructor) Reconstruct(cloud surface.PointCloud) (*pipeline.Result, pipeline.Report, error) {
	time.Sleep(s.delay)
	return pipeline.Run(cloud, pipeline.DefaultParams())
}

// startBufService runs a Service over an in-memory listener and returns a
// connected client.
func startBufService(t *testing.T, cfg Config, h *Handler) *Client {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	svc := NewService(cfg, h)
	if err := svc.Serve(lis); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}
	t.Cleanup(svc.Stop)

	client, err := NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestService_Triangulate(t *testing.T) {
	client := startBufService(t, DefaultConfig(), newTestHandler(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Triangulate(ctx, PointsFromCloud(testutil.Repeat(testutil.CubeCorners(1), 3)))
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if len(resp.Mesh.Vertices) != 8 || len(resp.Mesh.Triangles) != 12 {
		t.Errorf("got %d vertices, %d triangles; want 8, 12", len(resp.Mesh.Vertices), len(resp.Mesh.Triangles))
	}
	if resp.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestService_FailureIsNotAnRPCError(t *testing.T) {
	client := startBufService(t, DefaultConfig(), newTestHandler(nil))

	resp, err := client.Triangulate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if resp.Success {
		t.Error("expected Success=false for empty input")
	}
	if resp.Error == "" {
		t.Error("expected an error message")
	}
	if len(resp.Mesh.Triangles) != 0 {
		t.Errorf("expected empty mesh, got %d triangles", len(resp.Mesh.Triangles))
	}
}

func TestService_RequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 20 * time.Millisecond
	h := NewHandler(slowReconstructor{delay: 500 * time.Millisecond}, nil)
	client := startBufService(t, cfg, h)

	_, err := client.Triangulate(context.Background(), PointsFromCloud(testutil.Tetrahedron()))
	if got := status.Code(err); got != codes.DeadlineExceeded {
		t.Errorf("status code = %v, want DeadlineExceeded (err %v)", got, err)
	}
}

func TestService_ConcurrentRequests(t *testing.T) {
	client := startBufService(t, DefaultConfig(), newTestHandler(nil))
	cloud := PointsFromCloud(testutil.Repeat(testutil.Tetrahedron(), 3))

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			resp, err := client.Triangulate(context.Background(), cloud)
			if err == nil && !resp.Success {
				err = status.Error(codes.Internal, resp.Error)
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
}

func TestService_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	svc := NewService(cfg, newTestHandler(nil))

	if svc.Addr() != nil {
		t.Error("expected nil Addr before Start")
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if svc.Addr() == nil {
		t.Fatal("expected bound address after Start")
	}
	if err := svc.Serve(bufconn.Listen(bufSize)); err == nil {
		t.Error("expected error serving twice")
	}

	client, err := NewClient(svc.Addr().String())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := client.Triangulate(ctx, PointsFromCloud(testutil.Repeat(testutil.Tetrahedron(), 3)))
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success, got %q", resp.Error)
	}

	svc.Stop()
	svc.Stop() // idempotent
}

func TestServer_TriangulateDirect(t *testing.T) {
	s := NewServer(newTestHandler(nil), 0)
	resp, err := s.Triangulate(context.Background(), request(testutil.Repeat(testutil.Tetrahedron(), 3)))
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(resp.Mesh.Triangles) != 4 {
		t.Errorf("got %d triangles, want 4", len(resp.Mesh.Triangles))
	}
}

func TestServer_CancelledContext(t *testing.T) {
	s := NewServer(NewHandler(slowReconstructor{delay: 200 * time.Millisecond}, nil), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Triangulate(ctx, request(testutil.Tetrahedron()))
	if got := status.Code(err); got != codes.Canceled {
		t.Errorf("status code = %v, want Canceled", got)
	}
}
