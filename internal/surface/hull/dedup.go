package hull

import (
	"github.com/banshee-data/pointmesh/internal/surface"
	"github.com/banshee-data/pointmesh/internal/surface/spatial"
)

// dedupe returns the indices of the points that survive merging, in
// ascending order. A point is merged into the earliest unmerged point
// within tol of it.
func dedupe(cloud surface.PointCloud, tol float64) ([]int, error) {
	if len(cloud) == 0 {
		return nil, nil
	}
	index, err := spatial.Build(cloud)
	if err != nil {
		return nil, err
	}

	merged := make([]bool, len(cloud))
	keep := make([]int, 0, len(cloud))
	for i, p := range cloud {
		if merged[i] {
			continue
		}
		keep = append(keep, i)
		for _, j := range index.QueryRadius(p, tol) {
			if j > i {
				merged[j] = true
			}
		}
	}
	return keep, nil
}
