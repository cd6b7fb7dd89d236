// Package surface owns the shared data model of the point-cloud to mesh
// reconstruction core.
//
// Responsibilities: point, cloud, polygon and mesh types, the fatal error
// kinds raised by the reconstruction stages, and small geometric helpers
// used by more than one stage.
// Key types: Point3, PointCloud, Polygon, Triangle, Mesh, StageError.
//
// Dependency rule: surface depends on no other internal package. Stage
// packages (spatial, mls, hull, export) depend on surface, and only
// pipeline composes them.
package surface
