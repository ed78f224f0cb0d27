package assistant

import (
	"testing"
	"time"
)

func TestReplyTimerZeroDelayRunsSynchronously(t *testing.T) {
	ran := false
	rt := NewReplyTimer(0, func() { ran = true })
	if !ran {
		t.Fatal("callback did not run synchronously")
	}
	if rt.Cancel() {
		t.Error("Cancel reported success after the callback ran")
	}
}

func TestReplyTimerCancelPreventsCallback(t *testing.T) {
	done := make(chan struct{})
	rt := NewReplyTimer(50*time.Millisecond, func() { close(done) })

	if !rt.Cancel() {
		t.Fatal("Cancel returned false for a pending timer")
	}
	select {
	case <-done:
		t.Fatal("callback ran after Cancel")
	case <-time.After(120 * time.Millisecond):
	}
	if rt.Cancel() {
		t.Error("second Cancel reported success")
	}
}

func TestReplyTimerFires(t *testing.T) {
	done := make(chan struct{})
	NewReplyTimer(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}
