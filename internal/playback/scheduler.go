package playback

import "time"

// TimerHandle is one pending single-shot callback. Cancel is idempotent:
// cancelling an already-fired or already-cancelled timer is a no-op, never
// an error.
type TimerHandle interface {
	Cancel()
}

// Scheduler is the timer capability supplied by the host event loop. The
// callback must be delivered on the loop's single thread; the controller
// owns at most one live handle per logical timer and always cancels before
// rescheduling.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) TimerHandle
}
