// Package probe owns the debugger handoff between scan cycles and the
// snapshot observer.
//
// Ownership boundary:
// - the single-slot tick rendezvous (publish/wait/abort)
// - the observer loop that renders and stores snapshots
// - the latest-snapshot store read by the monitor surface
package probe
