// Package service exposes mesh reconstruction as the Triangulator gRPC
// service.
//
// Responsibilities: converting wire messages to and from the surface model,
// running one reconstruction per request with a timeout, recovering from
// panics so a single bad request never takes the process down, and
// optionally recording each run.
// Key types: Handler (transport-independent request handling), Service
// (gRPC server lifecycle), Client.
//
// Dependency rule: service depends on surface/pipeline and meshpb. The
// reconstruction core never imports service.
package service
