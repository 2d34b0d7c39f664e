package tui

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/park285/heatboard/internal/playback"
)

// callbackEvent carries a timer callback into the screen's event queue so
// it executes on the single poll loop, never concurrently with input
// handling.
type callbackEvent struct {
	tcell.EventTime
	handle *timerHandle
}

type timerHandle struct {
	timer     *time.Timer
	cancelled atomic.Bool
	fn        func()
}

// Cancel is idempotent; a handle whose callback already fired or was never
// scheduled cancels without complaint. A callback that slipped into the
// queue before Cancel is skipped at delivery.
func (h *timerHandle) Cancel() {
	h.cancelled.Store(true)
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Schedule posts fn back through the event queue after d. Part of the
// playback.Scheduler capability.
func (v *Viewer) Schedule(d time.Duration, fn func()) playback.TimerHandle {
	h := &timerHandle{fn: fn}
	h.timer = time.AfterFunc(d, func() {
		ev := &callbackEvent{handle: h}
		ev.SetEventNow()
		v.screen.PostEventWait(ev)
	})
	return h
}
