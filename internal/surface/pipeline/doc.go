// Package pipeline runs a point cloud through the reconstruction stages.
//
// It is the composition root of the surface packages: it imports spatial,
// mls, hull and export, and none of those import pipeline. Each stage takes
// an owned input and returns an owned output; once a stage finishes, nothing
// holds a reference into the previous stage's buffers.
//
// The state machine is Indexing → Smoothing → HullBuilding → Exporting →
// Done, with any fatal error ending in Failed. Recoverable anomalies are
// counted in the Report and logged on the diag stream.
package pipeline
