// Package playback drives timeline navigation: the play/pause state machine,
// the move-advance timer, and the wave-tick timer with its phase and pulse
// accounting. Everything runs on the host's single event-loop thread.
package playback

import (
	"fmt"
	"time"

	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/rays"
	"github.com/park285/heatboard/internal/wave"
	"go.uber.org/zap"
)

// Status is the playback state. Paused and Stopped behave identically (not
// auto-advancing); the distinction is only shown to the user.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// DefaultInterval is the move-advance period when none is configured.
const DefaultInterval = 500 * time.Millisecond

// View is the rendering collaborator. RenderWave replaces any previously
// drawn highlights wholesale; ClearWave removes them. Render failures carry
// no correctness consequence and are suppressed by the controller.
type View interface {
	RenderSnapshot(index int) error
	RenderWave(glows []wave.Glow, color domain.RayColor) error
	ClearWave() error
}

// RaySource enumerates capturing moves for a snapshot index.
type RaySource interface {
	AttackRays(index int) ([]rays.AttackRay, error)
}

// Options is the initial controller configuration.
type Options struct {
	Length    int
	Interval  time.Duration
	Repeat    bool
	ShowRays  bool
	RayColor  domain.RayColor
	LabelMode domain.LabelMode
}

// Controller owns the active index and all wave sub-state. It is not safe
// for concurrent use: every method and every timer callback must run on the
// same event-loop thread.
type Controller struct {
	sched  Scheduler
	view   View
	source RaySource
	logger *zap.Logger

	length    int
	status    Status
	index     int
	interval  time.Duration
	repeat    bool
	showRays  bool
	rayColor  domain.RayColor
	labelMode domain.LabelMode

	phase  float64
	pulses int
	busy   bool

	moveTimer TimerHandle
	waveTimer TimerHandle
}

// NewController validates the collaborators and returns a controller in the
// Stopped state at index 0.
func NewController(sched Scheduler, view View, source RaySource, opts Options, logger *zap.Logger) (*Controller, error) {
	if sched == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if view == nil {
		return nil, fmt.Errorf("view is required")
	}
	if source == nil {
		return nil, fmt.Errorf("ray source is required")
	}
	if opts.Length < 1 {
		return nil, fmt.Errorf("timeline length must be at least 1, got %d", opts.Length)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RayColor == "" {
		opts.RayColor = domain.RayRed
	}
	if opts.LabelMode == "" {
		opts.LabelMode = domain.LabelSymbols
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		sched:     sched,
		view:      view,
		source:    source,
		logger:    logger,
		length:    opts.Length,
		interval:  opts.Interval,
		repeat:    opts.Repeat,
		showRays:  opts.ShowRays,
		rayColor:  opts.RayColor,
		labelMode: opts.LabelMode,
	}, nil
}

// Start renders the initial position and, if ray display is enabled, begins
// the first pulse sequence.
func (c *Controller) Start() {
	c.updateAndRedraw()
}

// Play enters Playing and schedules the next auto-advance.
func (c *Controller) Play() {
	if c.status == StatusPlaying {
		return
	}
	c.status = StatusPlaying
	c.scheduleAdvance()
}

// Pause cancels the pending auto-advance without touching the index.
func (c *Controller) Pause() {
	if c.status != StatusPlaying {
		return
	}
	cancelTimer(&c.moveTimer)
	c.status = StatusPaused
}

// StepNext moves forward one ply, clamped; a no-op at the last index.
func (c *Controller) StepNext() {
	if c.index >= c.length-1 {
		return
	}
	c.index++
	c.updateAndRedraw()
}

// StepPrev moves back one ply, clamped; a no-op at index 0.
func (c *Controller) StepPrev() {
	if c.index <= 0 {
		return
	}
	c.index--
	c.updateAndRedraw()
}

// JumpFirst jumps to the initial position.
func (c *Controller) JumpFirst() {
	c.index = 0
	c.updateAndRedraw()
}

// JumpLast jumps to the final position.
func (c *Controller) JumpLast() {
	c.index = c.length - 1
	c.updateAndRedraw()
}

// SetSpeed updates the interval used for the next scheduled advance. An
// already-pending wait keeps its original duration.
func (c *Controller) SetSpeed(d time.Duration) {
	if d <= 0 {
		return
	}
	c.interval = d
}

// SetRepeat toggles looping at the end of the timeline.
func (c *Controller) SetRepeat(on bool) {
	c.repeat = on
}

// SetRayDisplay enables or disables the attack-wave overlay. Disabling
// cancels any pending wave tick and clears highlights immediately; enabling
// starts a fresh pulse sequence for the current index.
func (c *Controller) SetRayDisplay(on bool) {
	if c.showRays == on {
		return
	}
	c.showRays = on
	cancelTimer(&c.waveTimer)
	if on {
		c.phase = 0
		c.pulses = 0
		c.waveTick()
		return
	}
	c.suppress("clear wave", c.view.ClearWave())
}

// SetRayColor changes the highlight color only; phase and pulse count are
// untouched, and the running pulse recolors on its current frame.
func (c *Controller) SetRayColor(color domain.RayColor) {
	c.rayColor = color
	if c.showRays && c.pulses < wave.MaxPulses {
		c.renderWaveFrame()
	}
}

// SetLabelMode switches cell annotations and redraws the board.
func (c *Controller) SetLabelMode(mode domain.LabelMode) {
	if c.labelMode == mode {
		return
	}
	c.labelMode = mode
	c.updateAndRedraw()
}

// Shutdown cancels both timers. Safe to call repeatedly.
func (c *Controller) Shutdown() {
	cancelTimer(&c.moveTimer)
	cancelTimer(&c.waveTimer)
	c.status = StatusStopped
}

func (c *Controller) Index() int { return c.index }
func (c *Controller) Length() int { return c.length }
func (c *Controller) Status() Status { return c.status }
func (c *Controller) Interval() time.Duration { return c.interval }
func (c *Controller) Repeat() bool { return c.repeat }
func (c *Controller) RayDisplay() bool { return c.showRays }
func (c *Controller) RayColor() domain.RayColor { return c.rayColor }
func (c *Controller) LabelMode() domain.LabelMode { return c.labelMode }

func (c *Controller) scheduleAdvance() {
	cancelTimer(&c.moveTimer)
	c.moveTimer = c.sched.Schedule(c.interval, c.onMoveTimer)
}

// onMoveTimer is the scheduled auto-advance callback. Fired while a redraw
// is still in flight it is dropped, not queued.
func (c *Controller) onMoveTimer() {
	if c.busy {
		c.logger.Debug("auto-advance tick dropped, redraw in progress")
		return
	}
	if c.status != StatusPlaying {
		return
	}
	switch {
	case c.index < c.length-1:
		c.index++
		c.updateAndRedraw()
		c.scheduleAdvance()
	case c.repeat:
		c.index = 0
		c.updateAndRedraw()
		c.scheduleAdvance()
	default:
		c.moveTimer = nil
		c.status = StatusStopped
	}
}

// updateAndRedraw repaints the board for the current index and restarts the
// wave sub-state. Any index change, whatever its cause, funnels through
// here, so a stale wave tick can never animate against an abandoned
// position.
func (c *Controller) updateAndRedraw() {
	if c.busy {
		return
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.suppress("render snapshot", c.view.RenderSnapshot(c.index))

	cancelTimer(&c.waveTimer)
	c.phase = 0
	c.pulses = 0
	if c.showRays {
		c.waveTick()
	}
}

// onWaveTimer is the scheduled wave callback; like the move timer it is
// dropped when it interleaves with a redraw.
func (c *Controller) onWaveTimer() {
	if c.busy {
		c.logger.Debug("wave tick dropped, redraw in progress")
		return
	}
	c.waveTick()
}

func (c *Controller) waveTick() {
	if !c.showRays || c.pulses >= wave.MaxPulses {
		return
	}
	next, wrapped := wave.Advance(c.phase)
	c.phase = next
	if wrapped {
		c.pulses++
	}
	if c.pulses >= wave.MaxPulses {
		c.waveTimer = nil
		c.suppress("clear wave", c.view.ClearWave())
		return
	}
	c.renderWaveFrame()
	cancelTimer(&c.waveTimer)
	c.waveTimer = c.sched.Schedule(wave.TickInterval, c.onWaveTimer)
}

// renderWaveFrame recomputes the rays for the active snapshot and paints one
// wave frame. Rays are never cached across positions.
func (c *Controller) renderWaveFrame() {
	attackRays, err := c.source.AttackRays(c.index)
	if err != nil {
		c.logger.Debug("attack ray lookup failed", zap.Int("index", c.index), zap.Error(err))
		return
	}
	var glows []wave.Glow
	for _, ray := range attackRays {
		path := rays.Interpolate(ray.From, ray.To)
		glows = append(glows, wave.Visibility(path, c.phase)...)
	}
	c.suppress("render wave", c.view.RenderWave(glows, c.rayColor))
}

// suppress logs a best-effort rendering failure without propagating it.
// Only cleanup and repaint operations go through here, never state
// transitions.
func (c *Controller) suppress(op string, err error) {
	if err != nil {
		c.logger.Debug("redraw suppressed", zap.String("op", op), zap.Error(err))
	}
}

func cancelTimer(handle *TimerHandle) {
	if *handle != nil {
		(*handle).Cancel()
		*handle = nil
	}
}
