package clock

import "time"

const nanosPerSecond = int64(time.Second)

// TimeSpec is one wall-clock time point split into whole seconds and a
// nanosecond remainder, the shape the scan engine stamps and the control
// program consumes.
type TimeSpec struct {
	Sec  int64 `json:"sec"`
	Nsec int64 `json:"nsec"`
}

// SplitNanos decomposes a nanosecond count into whole seconds plus remainder
// using integer quotient/remainder only, valid across the full int64 range.
// Negative inputs normalize so that 0 <= nsec < 1e9.
func SplitNanos(ns int64) (sec, nsec int64) {
	sec = ns / nanosPerSecond
	nsec = ns % nanosPerSecond
	if nsec < 0 {
		sec--
		nsec += nanosPerSecond
	}
	return sec, nsec
}

// FromNanos builds a normalized TimeSpec from a nanosecond count.
func FromNanos(ns int64) TimeSpec {
	sec, nsec := SplitNanos(ns)
	return TimeSpec{Sec: sec, Nsec: nsec}
}

// Nanos flattens the time point back to nanoseconds. Overflows past the year
// 2262; fine for wall stamps and scan periods.
func (ts TimeSpec) Nanos() int64 {
	return ts.Sec*nanosPerSecond + ts.Nsec
}

// Before reports whether ts is strictly earlier than other.
func (ts TimeSpec) Before(other TimeSpec) bool {
	if ts.Sec != other.Sec {
		return ts.Sec < other.Sec
	}
	return ts.Nsec < other.Nsec
}

// IsZero reports the zero time point (no stamp taken yet).
func (ts TimeSpec) IsZero() bool {
	return ts.Sec == 0 && ts.Nsec == 0
}

// Time converts the stamp for display and log fields.
func (ts TimeSpec) Time() time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

// Source yields the current time for the scan engine. Production wiring
// injects Wall; tests inject deterministic sources.
type Source func() TimeSpec

// Wall reads the real-time clock at nanosecond resolution.
func Wall() TimeSpec {
	now := time.Now()
	return TimeSpec{Sec: now.Unix(), Nsec: int64(now.Nanosecond())}
}
