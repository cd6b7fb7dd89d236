package pipeline

import (
	"time"

	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/export"
	"github.com/banshee-data/pointmesh/internal/surface/hull"
	"github.com/banshee-data/pointmesh/internal/surface/mls"
	"github.com/banshee-data/pointmesh/internal/surface/spatial"
)

// Params is the complete, immutable configuration of one reconstruction.
type Params struct {
	Smoothing mls.Params
	Hull      hull.Params
}

// DefaultParams returns the production parameters of every stage.
func DefaultParams() Params {
	return Params{
		Smoothing: mls.DefaultParams(),
		Hull:      hull.DefaultParams(),
	}
}

// Report summarises a reconstruction, successful or not.
type Report struct {
	State     State                   // Done or Failed
	Durations map[State]time.Duration // Time spent in each stage entered
	Total     time.Duration

	InputPoints    int
	SmoothedPoints int
	DroppedPoints  int // Too few neighbours (recoverable)
	PolynomialFits int
	PlaneFits      int

	HullKind        hull.Kind
	DistinctPoints  int
	DuplicatePoints int
	DegenerateFaces int // Zero-area hull triangles discarded

	Polygons        int
	Triangles       int
	SkippedPolygons int // Fewer than three valid indices (recoverable)
}

// Result is the output of a successful reconstruction. Normals[i] is the
// smoothed surface normal at Mesh.Vertices[i].
type Result struct {
	Mesh    surface.Mesh
	Normals surface.PointCloud
	Report  Report
}

// run tracks the state machine and per-stage timing of one reconstruction.
type run struct {
	state   State
	entered time.Time
	start   time.Time
	report  Report
}

func newRun() *run {
	now := time.Now()
	return &run{
		state:   StateIndexing,
		entered: now,
		start:   now,
		report:  Report{Durations: make(map[State]time.Duration, 4)},
	}
}

func (r *run) advance() {
	now := time.Now()
	r.report.Durations[r.state] = now.Sub(r.entered)
	tracef("%s finished in %v", r.state, r.report.Durations[r.state])
	r.state = r.state.next()
	r.entered = now
	r.report.State = r.state
	if r.state.Terminal() {
		r.report.Total = now.Sub(r.start)
	}
}

// fail moves to Failed and wraps err with the stage it occurred in.
func (r *run) fail(err error) error {
	now := time.Now()
	stage := r.state
	r.report.Durations[stage] = now.Sub(r.entered)
	r.report.Total = now.Sub(r.start)
	r.state = StateFailed
	r.report.State = StateFailed
	opsf("%s failed: %v", stage, err)
	return &surface.StageError{Stage: stage.String(), Err: err}
}

// Run reconstructs a convex mesh from cloud. The cloud is not modified.
//
// On failure the returned error is a *surface.StageError wrapping one of
// surface.ErrEmptyInput, surface.ErrInsufficientData or
// surface.ErrDegenerateGeometry, and the Report (returned alongside a nil
// Result) has State Failed.
func Run(cloud surface.PointCloud, p Params) (*Result, Report, error) {
	r := newRun()
	r.report.InputPoints = len(cloud)

	// Indexing
	if len(cloud) == 0 {
		return nil, r.report, r.fail(surface.ErrEmptyInput)
	}
	owned := cloud.Clone()
	index, err := spatial.Build(owned)
	if err != nil {
		return nil, r.report, r.fail(err)
	}
	tracef("indexed %d points", index.Len())
	r.advance()

	// Smoothing
	smoothed, sstats := mls.Smooth(owned, index, p.Smoothing)
	r.report.SmoothedPoints = sstats.Retained
	r.report.DroppedPoints = sstats.Dropped
	r.report.PolynomialFits = sstats.PolynomialFits
	r.report.PlaneFits = sstats.PlaneFits
	if sstats.Dropped > 0 {
		diagf("dropped %d of %d points with fewer than %d neighbours within %g",
			sstats.Dropped, sstats.Input, p.Smoothing.MinNeighbors, p.Smoothing.SearchRadius)
	}
	if sstats.Retained == 0 {
		return nil, r.report, r.fail(surface.ErrInsufficientData)
	}
	r.advance()

	// HullBuilding runs over the smoothed positions.
	hres, err := hull.Reconstruct(smoothed.Points, p.Hull)
	r.report.HullKind = hres.Kind
	r.report.DistinctPoints = hres.Distinct
	r.report.DuplicatePoints = hres.Duplicates
	r.report.DegenerateFaces = hres.Degenerate
	if err != nil {
		return nil, r.report, r.fail(err)
	}
	if hres.Duplicates > 0 {
		diagf("merged %d coincident points", hres.Duplicates)
	}
	if hres.Kind != hull.KindVolumetric {
		diagf("degenerate hull: %s input, %d vertices", hres.Kind, len(hres.Vertices))
	}
	if hres.Degenerate > 0 {
		diagf("discarded %d zero-area hull triangles", hres.Degenerate)
	}
	normals := make(surface.PointCloud, len(hres.SourceIndex))
	for i, src := range hres.SourceIndex {
		normals[i] = smoothed.Normals[src]
	}
	r.advance()

	// Exporting
	diagf("Found %d polygons", len(hres.Polygons))
	mesh, estats := export.Export(hres.Vertices, hres.Polygons)
	for _, i := range estats.SkippedPolygons {
		diagf("Not enough points in polygon %d", i)
	}
	r.report.Polygons = estats.Polygons
	r.report.Triangles = estats.Exported
	r.report.SkippedPolygons = estats.Skipped
	r.advance()

	tracef("reconstructed %d vertices, %d triangles from %d points in %v",
		len(mesh.Vertices), len(mesh.Triangles), len(cloud), r.report.Total)

	return &Result{Mesh: mesh, Normals: normals, Report: r.report}, r.report, nil
}

// Reconstructor binds a fixed Params to Run so callers can inject it.
type Reconstructor struct {
	Params Params
}

// NewReconstructor returns a Reconstructor using p.
func NewReconstructor(p Params) *Reconstructor {
	return &Reconstructor{Params: p}
}

// Reconstruct runs the pipeline with the bound parameters.
func (rc *Reconstructor) Reconstruct(cloud surface.PointCloud) (*Result, Report, error) {
	return Run(cloud, rc.Params)
}
