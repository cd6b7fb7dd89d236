package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/banshee-data/pointmesh/internal/testutil"
	"github.com/banshee-data/pointmesh/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRecorder struct {
	mu   sync.Mutex
	runs []RunRecord
	err  error
}

func (m *memoryRecorder) RecordRun(_ context.Context, run RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return m.err
}

type panicRecorder struct{}

func (panicRecorder) RecordRun(context.Context, RunRecord) error {
	panic("recorder exploded")
}

type panicReconstructor struct{}

func (panicReconstructor) Reconstruct(surface.PointCloud) (*pipeline.Result, pipeline.Report, error) {
	panic("boom")
}

func newTestHandler(rec RunRecorder) *Handler {
	return NewHandler(pipeline.NewReconstructor(pipeline.DefaultParams()), rec)
}

func request(cloud surface.PointCloud) *meshpb.TriangulateRequest {
	return &meshpb.TriangulateRequest{Points: PointsFromCloud(cloud)}
}

func TestHandleRequest_Tetrahedron(t *testing.T) {
	rec := &memoryRecorder{}
	h := newTestHandler(rec)

	resp := h.HandleRequest(context.Background(), request(testutil.Repeat(testutil.Tetrahedron(), 3)))
	require.True(t, resp.Success, resp.Error)
	assert.Empty(t, resp.Error)
	assert.Len(t, resp.Mesh.Vertices, 4)
	assert.Len(t, resp.Mesh.Triangles, 4)
	assert.NotEmpty(t, resp.RunID)

	for _, tri := range resp.Mesh.Triangles {
		for _, idx := range tri.VertexIndices {
			assert.Less(t, int(idx), len(resp.Mesh.Vertices))
		}
	}

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, resp.RunID, run.ID)
	assert.True(t, run.Success)
	assert.Equal(t, 12, run.Report.InputPoints)
	assert.Equal(t, pipeline.StateDone, run.Report.State)
	assert.Equal(t, 4, run.Vertices)
}

func TestHandleRequest_StampsRun(t *testing.T) {
	rec := &memoryRecorder{}
	h := newTestHandler(rec)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	clock.Step = 40 * time.Millisecond
	h.SetClock(clock)

	h.HandleRequest(context.Background(), request(testutil.Repeat(testutil.Tetrahedron(), 3)))

	require.Len(t, rec.runs, 1)
	assert.True(t, rec.runs[0].StartedAt.Equal(start))
	assert.Equal(t, 40*time.Millisecond, rec.runs[0].Duration)
}

func TestHandleRequest_Failures(t *testing.T) {
	tests := []struct {
		name    string
		req     *meshpb.TriangulateRequest
		wantErr string
	}{
		{"nil request", nil, surface.ErrEmptyInput.Error()},
		{"empty", &meshpb.TriangulateRequest{}, surface.ErrEmptyInput.Error()},
		{"sparse", request(testutil.CubeCorners(1)), surface.ErrInsufficientData.Error()},
		{"collinear pair", request(testutil.Repeat(surface.PointCloud{{X: 0}, {X: 1}}, 3)), surface.ErrDegenerateGeometry.Error()},
		{"nan", &meshpb.TriangulateRequest{Points: []meshpb.Point{{X: math.NaN()}}}, "non-finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &memoryRecorder{}
			resp := newTestHandler(rec).HandleRequest(context.Background(), tt.req)

			require.NotNil(t, resp)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
			assert.Empty(t, resp.Mesh.Vertices)
			assert.Empty(t, resp.Mesh.Triangles)

			require.Len(t, rec.runs, 1)
			assert.False(t, rec.runs[0].Success)
			assert.Equal(t, pipeline.StateFailed, rec.runs[0].Report.State)
		})
	}
}

func TestHandleRequest_RecoversPanic(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	t.Cleanup(func() { SetLogWriters(nil, nil, nil) })

	h := NewHandler(panicReconstructor{}, nil)
	resp := h.HandleRequest(context.Background(), request(testutil.Tetrahedron()))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "internal error: boom")
	assert.True(t, strings.Contains(ops.String(), "panic in run"), ops.String())
}

func TestHandleRequest_RecorderPanicRecovered(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	t.Cleanup(func() { SetLogWriters(nil, nil, nil) })

	h := newTestHandler(panicRecorder{})
	var resp *meshpb.TriangulateResponse
	require.NotPanics(t, func() {
		resp = h.HandleRequest(context.Background(), request(testutil.Repeat(testutil.Tetrahedron(), 3)))
	})
	assert.True(t, resp.Success, resp.Error)
	assert.Len(t, resp.Mesh.Triangles, 4)
	assert.Contains(t, ops.String(), "panic recording run")
	assert.Contains(t, ops.String(), "recorder exploded")

	// The gRPC path runs the handler on its own goroutine.
	s := NewServer(h, time.Minute)
	resp, err := s.Triangulate(context.Background(), request(testutil.Repeat(testutil.Tetrahedron(), 3)))
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestHandleRequest_RecorderErrorIgnored(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	t.Cleanup(func() { SetLogWriters(nil, nil, nil) })

	rec := &memoryRecorder{err: errors.New("disk full")}
	resp := newTestHandler(rec).HandleRequest(context.Background(), request(testutil.Repeat(testutil.CubeCorners(1), 3)))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Mesh.Triangles, 12)
	assert.Contains(t, ops.String(), "disk full")
}

func TestMeshToProtoPreservesIndices(t *testing.T) {
	mesh := surface.Mesh{
		Vertices:  testutil.Tetrahedron(),
		Triangles: []surface.Triangle{{3, 1, 2}, {0, 2, 1}},
	}
	got := meshToProto(mesh)
	assert.Equal(t, [3]uint32{3, 1, 2}, got.Triangles[0].VertexIndices)
	assert.Equal(t, [3]uint32{0, 2, 1}, got.Triangles[1].VertexIndices)
	assert.Equal(t, meshpb.Point{Z: 1}, got.Vertices[3])
}
