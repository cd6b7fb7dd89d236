// Package meshpb holds the wire messages and gRPC bindings of the
// pointmesh.Triangulator service defined in pointmesh.proto.
//
// The schema is compiled at init into a protoreflect.FileDescriptor
// (descriptor.go) and messages are encoded by proto.Marshal over dynamicpb
// messages, so gRPC's default proto codec carries them unchanged. Callers
// work with the plain Go structs in messages.go.
package meshpb
