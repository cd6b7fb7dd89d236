package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/banshee-data/pointmesh/internal/service/meshpb"
	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/banshee-data/pointmesh/internal/timeutil"
	"github.com/google/uuid"
)

// Reconstructor turns a cloud into a mesh. *pipeline.Reconstructor
// implements it.
type Reconstructor interface {
	Reconstruct(cloud surface.PointCloud) (*pipeline.Result, pipeline.Report, error)
}

// RunRecord describes one handled request.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Report    pipeline.Report
	Vertices  int
	Success   bool
	Error     string
}

// RunRecorder persists RunRecords. Recording failures are logged and never
// affect the response.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// Handler answers triangulation requests. It holds no per-request state and
// is safe for concurrent use.
type Handler struct {
	reconstructor Reconstructor
	recorder      RunRecorder
	newID         func() string
	clock         timeutil.Clock
}

// NewHandler returns a Handler. recorder may be nil.
func NewHandler(r Reconstructor, recorder RunRecorder) *Handler {
	return &Handler{
		reconstructor: r,
		recorder:      recorder,
		newID:         func() string { return uuid.New().String() },
		clock:         timeutil.RealClock{},
	}
}

// SetClock replaces the clock used to stamp runs.
func (h *Handler) SetClock(c timeutil.Clock) {
	h.clock = c
}

// HandleRequest runs one reconstruction. It never returns nil and never
// panics: failures produce Success=false, an empty mesh and the error text.
func (h *Handler) HandleRequest(ctx context.Context, req *meshpb.TriangulateRequest) *meshpb.TriangulateResponse {
	run := RunRecord{ID: h.newID(), StartedAt: h.clock.Now()}
	resp := h.handle(req, &run)
	run.Duration = h.clock.Since(run.StartedAt)
	run.Success = resp.Success
	run.Error = resp.Error
	resp.RunID = run.ID

	if resp.Success {
		tracef("run %s: %d points -> %d vertices, %d triangles in %v",
			run.ID, run.Report.InputPoints, len(resp.Mesh.Vertices), len(resp.Mesh.Triangles), run.Duration)
	} else {
		diagf("run %s failed after %v: %s", run.ID, run.Duration, resp.Error)
	}

	h.record(ctx, run)
	return resp
}

// record hands run to the recorder. Recorder errors and panics are logged
// and never reach the caller.
func (h *Handler) record(ctx context.Context, run RunRecord) {
	if h.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			opsf("panic recording run %s: %v\n%s", run.ID, r, debug.Stack())
		}
	}()
	if err := h.recorder.RecordRun(ctx, run); err != nil {
		opsf("failed to record run %s: %v", run.ID, err)
	}
}

func (h *Handler) handle(req *meshpb.TriangulateRequest, run *RunRecord) (resp *meshpb.TriangulateResponse) {
	defer func() {
		if r := recover(); r != nil {
			opsf("panic in run %s: %v\n%s", run.ID, r, debug.Stack())
			run.Report.State = pipeline.StateFailed
			resp = failure(fmt.Errorf("internal error: %v", r))
		}
	}()

	cloud, err := cloudFromRequest(req)
	if err != nil {
		run.Report.State = pipeline.StateFailed
		return failure(err)
	}

	res, report, err := h.reconstructor.Reconstruct(cloud)
	run.Report = report
	if err != nil {
		return failure(err)
	}
	run.Vertices = len(res.Mesh.Vertices)
	return &meshpb.TriangulateResponse{
		Mesh:    meshToProto(res.Mesh),
		Success: true,
	}
}

func failure(err error) *meshpb.TriangulateResponse {
	return &meshpb.TriangulateResponse{Error: err.Error()}
}
