// Package scan owns the runtime lifecycle around one cyclic program.
//
// Ownership boundary:
// - the stopped/starting/running/stopping phase machine
// - the ordered start sequence (init, period floor, timer arm)
// - the ordered stop sequence (disarm, cleanup, probe abort)
// - the daemon shell: signals, heartbeat, monitor and observer wiring
package scan
