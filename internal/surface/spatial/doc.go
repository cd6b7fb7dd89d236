// Package spatial provides the nearest-neighbour index used by the
// reconstruction stages.
//
// An Index is a k-d tree built from exactly one PointCloud snapshot. It
// answers radius and nearest-point queries with indices into that cloud.
// If the cloud is changed after Build, the index must be rebuilt.
package spatial
