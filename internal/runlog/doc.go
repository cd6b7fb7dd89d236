// Package runlog persists one row per handled triangulation request in a
// sqlite database and serves debug views over it.
//
// The reconstruction core never reads this state; the service writes to it
// through the service.RunRecorder interface.
package runlog
