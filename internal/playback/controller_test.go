package playback

import (
	"math"
	"testing"
	"time"

	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/rays"
	"github.com/park285/heatboard/internal/wave"
)

type fakeTimer struct {
	d         time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (ft *fakeTimer) Cancel() { ft.cancelled = true }

// fakeScheduler collects pending timers; fire delivers the current batch on
// the test goroutine, standing in for the event loop.
type fakeScheduler struct {
	pending []*fakeTimer
}

func (fs *fakeScheduler) Schedule(d time.Duration, fn func()) TimerHandle {
	ft := &fakeTimer{d: d, fn: fn}
	fs.pending = append(fs.pending, ft)
	return ft
}

func (fs *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	batch := fs.pending
	fs.pending = nil
	for _, ft := range batch {
		if ft.cancelled || ft.fired {
			continue
		}
		ft.fired = true
		ft.fn()
	}
}

func (fs *fakeScheduler) live() []*fakeTimer {
	var out []*fakeTimer
	for _, ft := range fs.pending {
		if !ft.cancelled && !ft.fired {
			out = append(out, ft)
		}
	}
	return out
}

type fakeView struct {
	snapshots []int
	waveCalls int
	lastGlows []wave.Glow
	lastColor domain.RayColor
	clears    int
}

func (fv *fakeView) RenderSnapshot(index int) error {
	fv.snapshots = append(fv.snapshots, index)
	return nil
}

func (fv *fakeView) RenderWave(glows []wave.Glow, color domain.RayColor) error {
	fv.waveCalls++
	fv.lastGlows = glows
	fv.lastColor = color
	return nil
}

func (fv *fakeView) ClearWave() error {
	fv.clears++
	return nil
}

type fakeSource struct {
	rays  []rays.AttackRay
	calls int
}

func (fs *fakeSource) AttackRays(index int) ([]rays.AttackRay, error) {
	fs.calls++
	return fs.rays, nil
}

func oneRay() []rays.AttackRay {
	return []rays.AttackRay{{
		From: domain.Square{Row: 4, Col: 4},
		To:   domain.Square{Row: 3, Col: 3},
	}}
}

func newTestController(t *testing.T, opts Options) (*Controller, *fakeScheduler, *fakeView, *fakeSource) {
	t.Helper()
	sched := &fakeScheduler{}
	view := &fakeView{}
	source := &fakeSource{}
	ctrl, err := NewController(sched, view, source, opts, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl, sched, view, source
}

func TestNewControllerValidation(t *testing.T) {
	if _, err := NewController(nil, &fakeView{}, &fakeSource{}, Options{Length: 1}, nil); err == nil {
		t.Fatalf("expected error for nil scheduler")
	}
	if _, err := NewController(&fakeScheduler{}, nil, &fakeSource{}, Options{Length: 1}, nil); err == nil {
		t.Fatalf("expected error for nil view")
	}
	if _, err := NewController(&fakeScheduler{}, &fakeView{}, nil, Options{Length: 1}, nil); err == nil {
		t.Fatalf("expected error for nil ray source")
	}
	if _, err := NewController(&fakeScheduler{}, &fakeView{}, &fakeSource{}, Options{Length: 0}, nil); err == nil {
		t.Fatalf("expected error for empty timeline")
	}
}

func TestAutoAdvanceStopsAtEnd(t *testing.T) {
	ctrl, sched, view, _ := newTestController(t, Options{Length: 3})
	ctrl.Start()
	if len(view.snapshots) != 1 || view.snapshots[0] != 0 {
		t.Fatalf("Start should render index 0, got %v", view.snapshots)
	}

	ctrl.Play()
	if ctrl.Status() != StatusPlaying {
		t.Fatalf("status = %v, want playing", ctrl.Status())
	}

	sched.fire(t) // 0 -> 1
	sched.fire(t) // 1 -> 2
	if ctrl.Index() != 2 {
		t.Fatalf("index = %d, want 2", ctrl.Index())
	}
	sched.fire(t) // at end, no repeat
	if ctrl.Status() != StatusStopped {
		t.Fatalf("status = %v, want stopped at end", ctrl.Status())
	}
	if ctrl.Index() != 2 {
		t.Fatalf("index moved past end: %d", ctrl.Index())
	}
	if live := sched.live(); len(live) != 0 {
		t.Fatalf("nothing should remain scheduled after stop, got %d", len(live))
	}

	// Stepping past the last index stays put without a redraw.
	before := len(view.snapshots)
	ctrl.StepNext()
	if ctrl.Index() != 2 || len(view.snapshots) != before {
		t.Fatalf("StepNext at end must be a no-op")
	}
}

func TestRepeatWrapsToStart(t *testing.T) {
	ctrl, sched, _, _ := newTestController(t, Options{Length: 2, Repeat: true})
	ctrl.Start()
	ctrl.Play()

	sched.fire(t) // 0 -> 1
	sched.fire(t) // wrap to 0
	if ctrl.Index() != 0 {
		t.Fatalf("index = %d, want 0 after wrap", ctrl.Index())
	}
	if ctrl.Status() != StatusPlaying {
		t.Fatalf("status = %v, playback should continue through the wrap", ctrl.Status())
	}
	if live := sched.live(); len(live) != 1 {
		t.Fatalf("expected one pending advance after wrap, got %d", len(live))
	}
}

func TestPauseCancelsPendingAdvance(t *testing.T) {
	ctrl, sched, _, _ := newTestController(t, Options{Length: 3})
	ctrl.Start()
	ctrl.Play()
	ctrl.Pause()

	if ctrl.Status() != StatusPaused {
		t.Fatalf("status = %v, want paused", ctrl.Status())
	}
	sched.fire(t)
	if ctrl.Index() != 0 {
		t.Fatalf("cancelled advance still moved the index to %d", ctrl.Index())
	}

	ctrl.Play()
	sched.fire(t)
	if ctrl.Index() != 1 {
		t.Fatalf("resume did not advance, index = %d", ctrl.Index())
	}
}

func TestSetSpeedAppliesToNextScheduleOnly(t *testing.T) {
	ctrl, sched, _, _ := newTestController(t, Options{Length: 5, Interval: 500 * time.Millisecond})
	ctrl.Start()
	ctrl.Play()

	pending := sched.live()
	if len(pending) != 1 || pending[0].d != 500*time.Millisecond {
		t.Fatalf("first advance should wait the original interval, got %v", pending)
	}

	ctrl.SetSpeed(200 * time.Millisecond)
	if pending[0].cancelled {
		t.Fatalf("SetSpeed must not cancel the pending advance")
	}
	sched.fire(t)

	pending = sched.live()
	if len(pending) != 1 || pending[0].d != 200*time.Millisecond {
		t.Fatalf("next advance should use the new interval, got %v", pending)
	}
}

func TestIndexChangeResetsWaveState(t *testing.T) {
	ctrl, sched, view, source := newTestController(t, Options{Length: 3, ShowRays: true})
	source.rays = oneRay()

	ctrl.Start()
	if view.waveCalls == 0 {
		t.Fatalf("Start with rays enabled should paint a wave frame")
	}
	if len(sched.live()) != 1 {
		t.Fatalf("expected a pending wave tick after Start")
	}
	waveTimer := sched.live()[0]

	sched.fire(t)
	if ctrl.phase <= wave.PhaseStep+1e-9 {
		t.Fatalf("wave tick did not advance the phase: %v", ctrl.phase)
	}

	ctrl.StepNext()
	if !waveTimer.fired && !waveTimer.cancelled {
		t.Fatalf("index change left the old wave timer live")
	}
	// One fresh tick runs for the new index, so the phase restarts at a
	// single step past zero.
	if math.Abs(ctrl.phase-wave.PhaseStep) > 1e-9 {
		t.Fatalf("phase was not reset on index change: %v", ctrl.phase)
	}
	if ctrl.pulses != 0 {
		t.Fatalf("pulses = %d, want 0 after index change", ctrl.pulses)
	}
	if len(sched.live()) != 1 {
		t.Fatalf("expected a fresh wave tick for the new index")
	}
}

func TestPulseBudgetClearsHighlights(t *testing.T) {
	ctrl, sched, view, source := newTestController(t, Options{Length: 1, ShowRays: true})
	source.rays = oneRay()
	ctrl.Start()

	for i := 0; i < 100 && len(sched.live()) > 0; i++ {
		sched.fire(t)
	}
	if len(sched.live()) != 0 {
		t.Fatalf("wave ticking never terminated")
	}
	if ctrl.pulses != wave.MaxPulses {
		t.Fatalf("pulses = %d, want %d", ctrl.pulses, wave.MaxPulses)
	}
	if view.clears != 1 {
		t.Fatalf("highlights should be cleared exactly once, got %d", view.clears)
	}
}

func TestSetRayColorKeepsPhase(t *testing.T) {
	ctrl, sched, view, source := newTestController(t, Options{Length: 1, ShowRays: true})
	source.rays = oneRay()
	ctrl.Start()
	sched.fire(t)
	sched.fire(t)

	phase, pulses := ctrl.phase, ctrl.pulses
	ctrl.SetRayColor(domain.RayBlue)
	if ctrl.phase != phase || ctrl.pulses != pulses {
		t.Fatalf("color change disturbed the pulse: phase %v->%v pulses %d->%d",
			phase, ctrl.phase, pulses, ctrl.pulses)
	}
	if view.lastColor != domain.RayBlue {
		t.Fatalf("running pulse should recolor immediately, got %v", view.lastColor)
	}
}

func TestSetRayDisplayToggle(t *testing.T) {
	ctrl, sched, view, source := newTestController(t, Options{Length: 1})
	source.rays = oneRay()
	ctrl.Start()
	if len(sched.live()) != 0 {
		t.Fatalf("rays disabled, nothing should be scheduled")
	}

	ctrl.SetRayDisplay(true)
	if view.waveCalls == 0 || len(sched.live()) != 1 {
		t.Fatalf("enabling rays should start a pulse immediately")
	}

	ctrl.SetRayDisplay(false)
	if view.clears != 1 {
		t.Fatalf("disabling rays should clear highlights, clears = %d", view.clears)
	}
	if len(sched.live()) != 0 {
		t.Fatalf("disabling rays should cancel the pending tick")
	}
}

// busyView re-enters the controller from inside a redraw, the way a timer
// callback delivered mid-update would.
type busyView struct {
	fakeView
	ctrl    *Controller
	reenter bool
}

func (bv *busyView) RenderSnapshot(index int) error {
	if !bv.reenter {
		bv.reenter = true
		bv.ctrl.onMoveTimer()
	}
	return bv.fakeView.RenderSnapshot(index)
}

func TestBusyRedrawDropsTimerCallback(t *testing.T) {
	sched := &fakeScheduler{}
	view := &busyView{}
	source := &fakeSource{}
	ctrl, err := NewController(sched, view, source, Options{Length: 5}, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	view.ctrl = ctrl

	ctrl.Play()
	sched.fire(t)
	// The nested callback fired during the redraw must have been dropped, so
	// only one advance lands.
	if ctrl.Index() != 1 {
		t.Fatalf("index = %d, want 1 (re-entrant tick must be dropped)", ctrl.Index())
	}
}

func TestShutdownCancelsEverything(t *testing.T) {
	ctrl, sched, _, source := newTestController(t, Options{Length: 3, ShowRays: true})
	source.rays = oneRay()
	ctrl.Start()
	ctrl.Play()

	ctrl.Shutdown()
	if ctrl.Status() != StatusStopped {
		t.Fatalf("status = %v, want stopped", ctrl.Status())
	}
	if len(sched.live()) != 0 {
		t.Fatalf("timers survived shutdown: %d", len(sched.live()))
	}
	ctrl.Shutdown() // must stay safe on repeat
}
