package counter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/program"
	"github.com/danmuck/scanctl/internal/testutil/testlog"
)

type stubPublisher struct {
	ticks []int64
}

func (s *stubPublisher) Publish(tick int64) {
	s.ticks = append(s.ticks, tick)
}

func TestCounterAccumulates(t *testing.T) {
	testlog.Start(t)
	pub := &stubPublisher{}
	p := New(pub)
	if err := p.Init([]string{"10", "5"}); err != nil {
		t.Fatalf("init: %v", err)
	}

	for i := 0; i < 3; i++ {
		p.RunCycle(clock.FromNanos(int64(i) * 100_000_000))
	}
	if got := p.Value(); got != 25 {
		t.Fatalf("value: got=%d want=25", got)
	}
	if got := p.CurrentTick(); got != 3 {
		t.Fatalf("tick: got=%d want=3", got)
	}
	if len(pub.ticks) != 3 || pub.ticks[2] != 3 {
		t.Fatalf("published ticks: got=%v want=[1 2 3]", pub.ticks)
	}

	payload, err := p.Snapshot(3)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	var snap struct {
		Tick  int64 `json:"tick"`
		Value int64 `json:"value"`
	}
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Tick != 3 || snap.Value != 25 {
		t.Fatalf("snapshot: got=%+v want tick=3 value=25", snap)
	}
}

func TestCounterInitBadArgs(t *testing.T) {
	testlog.Start(t)
	p := New(nil)
	cases := [][]string{
		{"not-a-number"},
		{"10", "not-a-number"},
		{"10", "0"},
	}
	for _, args := range cases {
		if err := p.Init(args); !errors.Is(err, program.ErrInvalidArgs) {
			t.Fatalf("args=%v: expected ErrInvalidArgs, got %v", args, err)
		}
	}
}

func TestCounterDefaults(t *testing.T) {
	testlog.Start(t)
	p := New(nil)
	if err := p.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	p.RunCycle(clock.TimeSpec{})
	p.RunCycle(clock.TimeSpec{})
	if got := p.Value(); got != 2 {
		t.Fatalf("value with default step: got=%d want=2", got)
	}
}
