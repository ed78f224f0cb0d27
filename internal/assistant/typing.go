package assistant

import (
	"sync"
	"time"
)

// ReplyTimer delays delivery of a composed reply so the assistant appears
// to type for a moment. A zero or negative delay runs the callback
// synchronously. Cancel stops a pending callback; it reports whether the
// callback was prevented from running.
type ReplyTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	fired    bool
	canceled bool
}

// NewReplyTimer schedules fn after delay.
func NewReplyTimer(delay time.Duration, fn func()) *ReplyTimer {
	rt := &ReplyTimer{}
	if delay <= 0 {
		rt.fired = true
		fn()
		return rt
	}
	rt.timer = time.AfterFunc(delay, func() {
		rt.mu.Lock()
		if rt.canceled {
			rt.mu.Unlock()
			return
		}
		rt.fired = true
		rt.mu.Unlock()
		fn()
	})
	return rt
}

// Cancel stops the pending callback. It returns false when the callback
// already ran or the timer was cancelled before.
func (rt *ReplyTimer) Cancel() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.fired || rt.canceled {
		return false
	}
	rt.canceled = true
	if rt.timer != nil {
		rt.timer.Stop()
	}
	return true
}
