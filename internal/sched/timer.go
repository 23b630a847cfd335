package sched

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrTimerCreate    = errors.New("sched: timer create failed")
	ErrTimerDestroyed = errors.New("sched: timer destroyed")
)

// FireFunc is invoked once per timer expiry on the notification
// goroutine.
type FireFunc func()

// Timer delivers fires on a dedicated notification goroutine, one at a
// time, never on the goroutine that armed it. Missed expiries coalesce
// while a fire is still running; they are never queued beyond one.
//
// The zero value is ready to arm. Arm, Reprogram and DisarmAndDestroy
// are serialized by the caller and must not be invoked from the fire
// callback itself: retiring a schedule waits for the in-flight fire to
// drain.
type Timer struct {
	mu        sync.Mutex
	onFire    FireFunc
	destroyed bool
	loopStop  chan struct{}
	loopDone  chan struct{}
}

// Arm installs the callback and starts the schedule. Arming an
// already-armed timer reprograms it in place; the previous loop is
// drained first.
func (t *Timer) Arm(cfg Config, onFire FireFunc) error {
	if onFire == nil {
		return fmt.Errorf("%w: nil fire callback", ErrTimerCreate)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return fmt.Errorf("%w: arm after destroy", ErrTimerDestroyed)
	}
	t.onFire = onFire
	t.swapLoopLocked(cfg)
	return nil
}

// Reprogram swaps the schedule of an armed timer. A one-shot config
// fires at most once more; an unarmed config (zero delay) stops fires
// while keeping the handle usable.
func (t *Timer) Reprogram(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return fmt.Errorf("%w: reprogram after destroy", ErrTimerDestroyed)
	}
	if t.onFire == nil {
		return fmt.Errorf("%w: reprogram before arm", ErrTimerCreate)
	}
	t.swapLoopLocked(cfg)
	return nil
}

// DisarmAndDestroy stops the notification goroutine and releases the
// handle. Idempotent; safe on a zero-value or never-armed timer. No
// fire runs after it returns.
func (t *Timer) DisarmAndDestroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.retireLoopLocked()
	t.onFire = nil
	t.destroyed = true
}

// Armed reports whether a notification goroutine is currently live.
// A one-shot schedule reads as unarmed once its single fire has run.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loopDone == nil {
		return false
	}
	select {
	case <-t.loopDone:
		return false
	default:
		return true
	}
}

func (t *Timer) swapLoopLocked(cfg Config) {
	t.retireLoopLocked()
	if !cfg.Armed() {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	t.loopStop = stop
	t.loopDone = done
	go notify(cfg, t.onFire, stop, done)
}

// retireLoopLocked drains the active loop. The loop never touches
// t.mu, so waiting under the lock cannot deadlock.
func (t *Timer) retireLoopLocked() {
	if t.loopStop == nil {
		return
	}
	close(t.loopStop)
	<-t.loopDone
	t.loopStop = nil
	t.loopDone = nil
}

func notify(cfg Config, fire FireFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	delay := time.NewTimer(time.Duration(cfg.Delay))
	defer delay.Stop()
	select {
	case <-stop:
		return
	case <-delay.C:
	}
	fire()

	if cfg.OneShot() {
		return
	}
	ticker := time.NewTicker(time.Duration(cfg.Period))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fire()
		}
	}
}
