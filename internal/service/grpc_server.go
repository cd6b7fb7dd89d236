package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Config holds the transport settings of the service.
type Config struct {
	ListenAddr      string
	RequestTimeout  time.Duration
	MaxMessageBytes int
}

// DefaultConfig returns the default transport settings.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      "localhost:50061",
		RequestTimeout:  30 * time.Second,
		MaxMessageBytes: 16 * 1024 * 1024,
	}
}

var _ meshpb.TriangulatorServer = (*Server)(nil)

// Server adapts a Handler to meshpb.TriangulatorServer and enforces the
// request timeout.
type Server struct {
	meshpb.UnimplementedTriangulatorServer

	handler *Handler
	timeout time.Duration
}

// NewServer returns a Server. A zero timeout disables the per-request limit.
func NewServer(h *Handler, timeout time.Duration) *Server {
	return &Server{handler: h, timeout: timeout}
}

// Triangulate implements meshpb.TriangulatorServer. Reconstruction failures are
// reported in the response; only an expired or cancelled context produces
// a gRPC error. On timeout the reconstruction is abandoned: it runs to
// completion in the background and its result is discarded.
func (s *Server) Triangulate(ctx context.Context, req *meshpb.TriangulateRequest) (*meshpb.TriangulateResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan *meshpb.TriangulateResponse, 1)
	go func() {
		done <- s.handler.HandleRequest(context.WithoutCancel(ctx), req)
	}()

	select {
	case resp := <-done:
		return resp, nil
	case <-ctx.Done():
		diagf("abandoning request with %d points: %v", len(req.Points), ctx.Err())
		return nil, status.FromContextError(ctx.Err()).Err()
	}
}

// Service owns the gRPC server and its listener.
type Service struct {
	config   Config
	server   *grpc.Server
	listener net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewService returns a stopped Service answering requests with h.
func NewService(cfg Config, h *Handler) *Service {
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = DefaultConfig().MaxMessageBytes
	}
	s := &Service{config: cfg}
	s.server = grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxMessageBytes),
		grpc.MaxSendMsgSize(cfg.MaxMessageBytes),
	)
	meshpb.RegisterTriangulatorServer(s.server, NewServer(h, cfg.RequestTimeout))
	return s
}

// Start binds ListenAddr and serves in the background.
func (s *Service) Start() error {
	log.Printf("[Service] Attempting to bind to %s...", s.config.ListenAddr)
	lis, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	log.Printf("[Service] Successfully bound to %s", lis.Addr())
	if err := s.Serve(lis); err != nil {
		lis.Close()
		return err
	}
	return nil
}

// Serve serves on lis in the background. The Service takes ownership of lis.
func (s *Service) Serve(lis net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("service already running")
	}
	s.listener = lis

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Printf("[Service] gRPC server listening on %s", lis.Addr())
		if err := s.server.Serve(lis); err != nil && s.running.Load() {
			log.Printf("[Service] gRPC server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Service) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully stops the gRPC server, waiting for in-flight requests.
func (s *Service) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.server.GracefulStop()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	log.Printf("[Service] gRPC server stopped")
}
