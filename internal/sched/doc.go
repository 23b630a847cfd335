// Package sched owns the cyclic execution clockwork.
//
// Ownership boundary:
// - timer schedules and their second/nanosecond decomposition
// - the notification goroutine behind an armed schedule
// - the cycle trigger that stamps time before each scan pass
package sched
