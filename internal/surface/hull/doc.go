// Package hull reconstructs the triangulated convex hull of a point cloud.
//
// Coincident points are merged first. The remaining points are classified
// as collinear, planar or volumetric; volumetric clouds are handed to
// quickhull, planar ones get a fan triangulation of their 2D hull polygon,
// collinear ones produce no triangles. The Kind of the result reports which
// case occurred.
//
// Dedup and flatness tolerances are fractions of the cloud's bounding box
// diagonal, so clouds of any size behave alike. A failed reconstruction
// has Kind KindNone.
//
// Output vertices are the hull vertices only, ordered by their index in the
// input cloud. Interior points are dropped.
package hull
