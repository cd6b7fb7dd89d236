package mls

import (
	"math"

	"github.com/banshee-data/pointmesh/internal/surface"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxFitCondition rejects polynomial systems too ill-conditioned to trust.
// The plane projection is kept instead.
const maxFitCondition = 1e12

type fitResult struct {
	point      surface.Point3
	normal     surface.Point3
	ok         bool
	polynomial bool
}

// fitPoint computes the MLS projection of cloud[i] from its neighbours.
func fitPoint(cloud surface.PointCloud, i int, neighbors []int, radius float64, polynomial bool, order int) fitResult {
	q := cloud[i].Vec()
	k := float64(len(neighbors))

	var mean r3.Vec
	for _, j := range neighbors {
		mean = r3.Add(mean, cloud[j].Vec())
	}
	mean = r3.Scale(1/k, mean)

	var cxx, cxy, cxz, cyy, cyz, czz float64
	for _, j := range neighbors {
		d := r3.Sub(cloud[j].Vec(), mean)
		cxx += d.X * d.X
		cxy += d.X * d.Y
		cxz += d.X * d.Z
		cyy += d.Y * d.Y
		cyz += d.Y * d.Z
		czz += d.Z * d.Z
	}
	cov := mat.NewSymDense(3, []float64{
		cxx, cxy, cxz,
		cxy, cyy, cyz,
		cxz, cyz, czz,
	})

	normal := r3.Vec{Z: 1}
	var es mat.EigenSym
	if es.Factorize(cov, true) {
		var vecs mat.Dense
		es.VectorsTo(&vecs)
		// Eigenvalues are ascending; column 0 spans the least variance.
		n := r3.Vec{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}
		if r3.Norm(n) > 0 {
			normal = r3.Unit(n)
		}
	}

	// Project the query point onto the least-squares plane.
	dist := r3.Dot(r3.Sub(q, mean), normal)
	proj := r3.Sub(q, r3.Scale(dist, normal))
	res := fitResult{
		point:  surface.FromVec(proj),
		normal: surface.FromVec(normal),
		ok:     true,
	}

	nCoeff := (order + 1) * (order + 2) / 2
	if !polynomial || len(neighbors) < nCoeff {
		return res
	}

	u, v := basis(normal)
	a := mat.NewSymDense(nCoeff, nil)
	b := mat.NewVecDense(nCoeff, nil)
	mono := make([]float64, nCoeff)
	sqrGauss := radius * radius

	for _, j := range neighbors {
		d := r3.Sub(cloud[j].Vec(), proj)
		w := 1.0
		if sqrGauss > 0 {
			w = math.Exp(-r3.Norm2(d) / sqrGauss)
		}
		monomials(mono, r3.Dot(d, u), r3.Dot(d, v), order)
		f := r3.Dot(d, normal)
		for r := 0; r < nCoeff; r++ {
			b.SetVec(r, b.AtVec(r)+w*mono[r]*f)
			for c := r; c < nCoeff; c++ {
				a.SetSym(r, c, a.At(r, c)+w*mono[r]*mono[c])
			}
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(a) || chol.Cond() > maxFitCondition {
		return res
	}
	var coef mat.VecDense
	if err := chol.SolveVecTo(&coef, b); err != nil {
		return res
	}

	// The polynomial is anchored at the projected point, so its constant
	// term is the offset along the normal and its linear terms the slope.
	lifted := r3.Add(proj, r3.Scale(coef.AtVec(0), normal))
	du := coef.AtVec(order + 1)
	dv := coef.AtVec(1)
	n := r3.Sub(normal, r3.Add(r3.Scale(du, u), r3.Scale(dv, v)))
	if r3.Norm(n) > 0 {
		n = r3.Unit(n)
	} else {
		n = normal
	}

	res.point = surface.FromVec(lifted)
	res.normal = surface.FromVec(n)
	res.polynomial = true
	return res
}

// monomials fills dst with u^i v^j for i+j <= order, i outermost.
// Index 0 is the constant term, 1 is v and order+1 is u.
func monomials(dst []float64, u, v float64, order int) {
	k := 0
	ui := 1.0
	for i := 0; i <= order; i++ {
		vj := 1.0
		for j := 0; j <= order-i; j++ {
			dst[k] = ui * vj
			k++
			vj *= v
		}
		ui *= u
	}
}

// basis returns two unit vectors spanning the plane orthogonal to n.
func basis(n r3.Vec) (u, v r3.Vec) {
	axis := r3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		axis = r3.Vec{Y: 1}
	}
	u = r3.Unit(r3.Cross(n, axis))
	v = r3.Cross(n, u)
	return u, v
}
