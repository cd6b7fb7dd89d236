package runlog

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/banshee-data/pointmesh/internal/httputil"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/tailscale/tailsql/server/tailsql"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"tailscale.com/tsweb"
)

const defaultChartRuns = 500

// AttachAdminRoutes mounts the debug handlers on mux under /debug/:
// tailsql over the run log, JSON run listings, an interactive scatter of
// recent runs and a PNG latency plot.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Run log",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	store := NewStore(db)
	debug.Handle("runs.json", "Recent reconstruction runs (JSON)", http.HandlerFunc(store.handleListRuns))
	debug.Handle("run", "One reconstruction run by ?id= (JSON)", http.HandlerFunc(store.handleGetRun))
	debug.Handle("runs", "Recent reconstruction runs (chart)", http.HandlerFunc(store.handleRunsChart))
	debug.Handle("runs.png", "Reconstruction latency vs input size (PNG)", http.HandlerFunc(store.handleRunsPlot))
	return nil
}

func chartLimit(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 10000 {
		return v
	}
	return defaultChartRuns
}

func (s *Store) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.ListRecent(r.Context(), chartLimit(r))
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []*Run{}
	}
	httputil.WriteJSON(w, http.StatusOK, runs)
}

func (s *Store) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.BadRequest(w, "missing id")
		return
	}
	run, err := s.Get(r.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

// handleRunsChart renders input size against duration for recent runs,
// one series per outcome.
func (s *Store) handleRunsChart(w http.ResponseWriter, r *http.Request) {
	runs, err := s.ListRecent(r.Context(), chartLimit(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var ok, failed []opts.ScatterData
	for _, run := range runs {
		pt := opts.ScatterData{Value: []interface{}{run.InputPoints, run.DurationMS}, Name: run.RunID}
		if run.Success {
			ok = append(ok, pt)
		} else {
			failed = append(failed, pt)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Reconstruction runs", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Reconstruction runs", Subtitle: fmt.Sprintf("runs=%d", len(runs))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Input points", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Duration (ms)", NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("success", ok, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("failed", failed, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[runlog] failed to write chart: %v", err)
	}
}

// handleRunsPlot renders the same data as a static PNG.
func (s *Store) handleRunsPlot(w http.ResponseWriter, r *http.Request) {
	runs, err := s.ListRecent(r.Context(), chartLimit(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	p := plot.New()
	p.Title.Text = "Reconstruction latency"
	p.X.Label.Text = "Input points"
	p.Y.Label.Text = "Duration (ms)"

	pts := make(plotter.XYs, 0, len(runs))
	for _, run := range runs {
		pts = append(pts, plotter.XY{X: float64(run.InputPoints), Y: run.DurationMS})
	}
	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to build plot: %v", err), http.StatusInternalServerError)
			return
		}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
	}

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to render plot: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode plot: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[runlog] failed to write plot: %v", err)
	}
}
