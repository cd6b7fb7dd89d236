package mls

import (
	"runtime"

	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/spatial"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSearchRadius is the neighbourhood radius in input units.
	DefaultSearchRadius = 0.03
	// DefaultPolynomialOrder is the order of the local surface fit.
	DefaultPolynomialOrder = 2
	// DefaultMinNeighbors is the smallest neighbourhood (query point
	// included) that supports a first-order fit.
	DefaultMinNeighbors = 3
)

// Params configures the smoother.
type Params struct {
	SearchRadius    float64 // Neighbourhood radius
	PolynomialFit   bool    // Lift points onto a polynomial; false keeps plane projection only
	PolynomialOrder int     // Order of the polynomial fit (>= 1)
	MinNeighbors    int     // Points with fewer neighbours are dropped
	Workers         int     // Parallel fit workers; <= 0 uses GOMAXPROCS
}

// DefaultParams returns the production smoothing parameters.
func DefaultParams() Params {
	return Params{
		SearchRadius:    DefaultSearchRadius,
		PolynomialFit:   true,
		PolynomialOrder: DefaultPolynomialOrder,
		MinNeighbors:    DefaultMinNeighbors,
	}
}

// SmoothedCloud holds the refined position and normal of every retained
// point. SourceIndex[i] is the index in the input cloud that Points[i] was
// derived from.
type SmoothedCloud struct {
	Points      surface.PointCloud
	Normals     surface.PointCloud
	SourceIndex []int
}

// Stats counts what happened to each input point.
type Stats struct {
	Input          int
	Retained       int
	Dropped        int // Too few neighbours (recoverable)
	PolynomialFits int
	PlaneFits      int
}

// Smooth projects every point of cloud onto its local MLS surface. index
// must have been built from cloud. Dropped points are omitted from the
// result; an empty result is not an error at this level.
//
// Fits run in parallel but each result is written to the slot of its input
// index and compacted in input order, so the output does not depend on
// scheduling.
func Smooth(cloud surface.PointCloud, index *spatial.Index, p Params) (SmoothedCloud, Stats) {
	stats := Stats{Input: len(cloud)}
	if len(cloud) == 0 || index == nil {
		return SmoothedCloud{}, stats
	}

	minNeighbors := p.MinNeighbors
	if minNeighbors < DefaultMinNeighbors {
		minNeighbors = DefaultMinNeighbors
	}
	order := p.PolynomialOrder
	if order < 1 {
		order = 1
	}

	results := make([]fitResult, len(cloud))

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)

	chunk := (len(cloud) + workers - 1) / workers
	for start := 0; start < len(cloud); start += chunk {
		end := min(start+chunk, len(cloud))
		g.Go(func() error {
			for i := start; i < end; i++ {
				neighbors := index.QueryRadius(cloud[i], p.SearchRadius)
				if len(neighbors) < minNeighbors {
					continue
				}
				results[i] = fitPoint(cloud, i, neighbors, p.SearchRadius, p.PolynomialFit, order)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	out := SmoothedCloud{
		Points:      make(surface.PointCloud, 0, len(cloud)),
		Normals:     make(surface.PointCloud, 0, len(cloud)),
		SourceIndex: make([]int, 0, len(cloud)),
	}
	for i, r := range results {
		if !r.ok {
			stats.Dropped++
			continue
		}
		if r.polynomial {
			stats.PolynomialFits++
		} else {
			stats.PlaneFits++
		}
		out.Points = append(out.Points, r.point)
		out.Normals = append(out.Normals, r.normal)
		out.SourceIndex = append(out.SourceIndex, i)
	}
	stats.Retained = len(out.Points)

	return out, stats
}
