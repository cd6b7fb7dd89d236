package spatial

import (
	"math"
	"sort"

	"github.com/banshee-data/pointmesh/internal/surface"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Index accelerates radius queries over a single point cloud.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// Build constructs an Index over cloud. The cloud itself is not retained or
// reordered: the tree holds its own copy of the coordinates tagged with
// their original indices.
func Build(cloud surface.PointCloud) (*Index, error) {
	if len(cloud) == 0 {
		return nil, surface.ErrEmptyInput
	}

	nodes := make(nodeList, len(cloud))
	for i, p := range cloud {
		nodes[i] = node{x: [3]float64{p.X, p.Y, p.Z}, idx: i}
	}

	return &Index{
		tree: kdtree.New(nodes, true),
		n:    len(cloud),
	}, nil
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// QueryRadius returns the indices of all points within radius of p,
// inclusive, in ascending index order.
func (ix *Index) QueryRadius(p surface.Point3, radius float64) []int {
	if ix == nil || ix.tree == nil || radius < 0 {
		return nil
	}

	keep := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keep, &node{x: [3]float64{p.X, p.Y, p.Z}})

	out := make([]int, 0, keep.Len())
	for _, c := range keep.Heap {
		// The sentinel is normally removed by NearestSet; skip it regardless.
		if c.Comparable == nil {
			continue
		}
		out = append(out, c.Comparable.(*node).idx)
	}
	sort.Ints(out)
	return out
}

// Nearest returns the index of the point closest to p and its distance.
// Ties resolve to whichever point the tree visits first.
func (ix *Index) Nearest(p surface.Point3) (int, float64) {
	if ix == nil || ix.tree == nil {
		return -1, math.Inf(1)
	}
	c, d2 := ix.tree.Nearest(&node{x: [3]float64{p.X, p.Y, p.Z}})
	if c == nil {
		return -1, math.Inf(1)
	}
	return c.(*node).idx, math.Sqrt(d2)
}

// node is a tree element carrying the index of its source point.
type node struct {
	x   [3]float64
	idx int
}

// Compare implements kdtree.Comparable.
func (n *node) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return n.x[d] - c.(*node).x[d]
}

// Dims implements kdtree.Comparable.
func (n *node) Dims() int { return 3 }

// Distance implements kdtree.Comparable. It returns the squared distance.
func (n *node) Distance(c kdtree.Comparable) float64 {
	q := c.(*node)
	dx := n.x[0] - q.x[0]
	dy := n.x[1] - q.x[1]
	dz := n.x[2] - q.x[2]
	return dx*dx + dy*dy + dz*dz
}

type nodeList []node

// Index returns the ith element of the list of points.
func (l nodeList) Index(i int) kdtree.Comparable { return &l[i] }

// Len returns the length of the list.
func (l nodeList) Len() int { return len(l) }

// Pivot partitions the list based on the dimension specified.
func (l nodeList) Pivot(d kdtree.Dim) int {
	p := plane{dim: int(d), nodes: l}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (l nodeList) Slice(start, end int) kdtree.Interface { return l[start:end] }

// Bounds implements the kdtree.Bounder interface.
func (l nodeList) Bounds() *kdtree.Bounding {
	if len(l) == 0 {
		return nil
	}
	min := node{x: l[0].x}
	max := node{x: l[0].x}
	for _, n := range l[1:] {
		for d := 0; d < 3; d++ {
			min.x[d] = math.Min(min.x[d], n.x[d])
			max.x[d] = math.Max(max.x[d], n.x[d])
		}
	}
	return &kdtree.Bounding{Min: &min, Max: &max}
}

type plane struct {
	dim   int
	nodes nodeList
}

func (p plane) Less(i, j int) bool {
	return p.nodes[i].x[p.dim] < p.nodes[j].x[p.dim]
}
func (p plane) Swap(i, j int) {
	p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
}
func (p plane) Len() int {
	return len(p.nodes)
}
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}
