package clock

import (
	"math"
	"testing"
	"time"

	"github.com/danmuck/scanctl/internal/testutil/testlog"
)

func TestSplitNanosDecomposition(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		ns   int64
		sec  int64
		nsec int64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{999_999_999, 0, 999_999_999},
		{1_000_000_000, 1, 0},
		{1_500_000_000, 1, 500_000_000},
		{math.MaxInt64, math.MaxInt64 / 1_000_000_000, math.MaxInt64 % 1_000_000_000},
	}
	for _, tc := range cases {
		sec, nsec := SplitNanos(tc.ns)
		if sec != tc.sec || nsec != tc.nsec {
			t.Fatalf("SplitNanos(%d) got=(%d,%d) want=(%d,%d)", tc.ns, sec, nsec, tc.sec, tc.nsec)
		}
	}
}

func TestSplitNanosNegativeNormalizes(t *testing.T) {
	testlog.Start(t)
	sec, nsec := SplitNanos(-1)
	if sec != -1 || nsec != 999_999_999 {
		t.Fatalf("SplitNanos(-1) got=(%d,%d)", sec, nsec)
	}
	sec, nsec = SplitNanos(-1_500_000_000)
	if sec != -2 || nsec != 500_000_000 {
		t.Fatalf("SplitNanos(-1.5s) got=(%d,%d)", sec, nsec)
	}
}

func TestFromNanosRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, ns := range []int64{0, 1, 999_999_999, 1_500_000_000, 86_400_000_000_000} {
		ts := FromNanos(ns)
		if got := ts.Nanos(); got != ns {
			t.Fatalf("round trip %d got=%d", ns, got)
		}
	}
}

func TestTimeSpecOrdering(t *testing.T) {
	testlog.Start(t)
	a := TimeSpec{Sec: 10, Nsec: 0}
	b := TimeSpec{Sec: 10, Nsec: 1}
	c := TimeSpec{Sec: 11, Nsec: 0}
	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Fatalf("ordering violated: a=%v b=%v c=%v", a, b, c)
	}
	if b.Before(a) || c.Before(b) {
		t.Fatalf("reverse ordering reported: a=%v b=%v c=%v", a, b, c)
	}
	if a.Before(a) {
		t.Fatalf("a before itself")
	}
}

func TestWallAdvances(t *testing.T) {
	testlog.Start(t)
	first := Wall()
	if first.IsZero() {
		t.Fatalf("wall clock returned zero stamp")
	}
	time.Sleep(2 * time.Millisecond)
	second := Wall()
	if !first.Before(second) {
		t.Fatalf("wall clock did not advance: first=%v second=%v", first, second)
	}
}
