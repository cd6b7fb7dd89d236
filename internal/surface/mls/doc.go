// Package mls implements Moving Least Squares surface smoothing.
//
// Each point is projected onto a local surface fitted to its neighbours
// from a spatial.Index: first a least-squares plane, then, when enough
// neighbours are available, a weighted bivariate polynomial over that plane.
// Points with too few neighbours are dropped rather than failing the call.
//
// Dependency rule: mls depends on surface and surface/spatial only.
package mls
