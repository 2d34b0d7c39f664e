// Package tui is the interactive terminal viewer: it owns the tcell screen,
// runs the single-threaded event loop, and implements the playback view and
// scheduler capabilities on top of it.
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/park285/heatboard/internal/config"
	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/playback"
	"github.com/park285/heatboard/internal/render"
	"github.com/park285/heatboard/internal/timeline"
	"github.com/park285/heatboard/internal/wave"
	"go.uber.org/zap"
)

const (
	cellWidth  = 4
	cellHeight = 2
	boardLeft  = 4
	boardTop   = 3
)

// Viewer renders the timeline into a terminal and forwards key presses to
// the playback controller.
type Viewer struct {
	screen tcell.Screen
	tl     *timeline.Timeline
	ctrl   *playback.Controller
	colors *render.Colormap
	logger *zap.Logger

	opening string
	snap    *timeline.Snapshot
	index   int

	glows     []wave.Glow
	glowColor domain.RayColor

	closed bool
}

// Run loads the screen, drives the playback loop until quit, and restores
// the terminal.
func Run(tl *timeline.Timeline, cfg *config.AppConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	v := &Viewer{
		screen: screen,
		tl:     tl,
		colors: render.NewColormap(),
		logger: logger,
	}
	if code, title := tl.Opening(); code != "" {
		v.opening = fmt.Sprintf("%s %s", code, title)
	}

	ctrl, err := playback.NewController(v, v, tl, playback.Options{
		Length:    tl.Len(),
		Interval:  cfg.Interval(),
		Repeat:    cfg.Repeat,
		ShowRays:  cfg.ShowRays,
		RayColor:  domain.ParseRayColor(cfg.RayColor),
		LabelMode: domain.ParseLabelMode(cfg.LabelMode),
	}, logger)
	if err != nil {
		return err
	}
	v.ctrl = ctrl

	sessionID := uuid.NewString()
	logger.Info("viewer session started",
		zap.String("session_id", sessionID),
		zap.Int("positions", tl.Len()),
		zap.String("opening", v.opening),
	)

	ctrl.Start()
	v.loop()
	ctrl.Shutdown()
	v.closed = true

	logger.Info("viewer session ended", zap.String("session_id", sessionID))
	return nil
}

func (v *Viewer) loop() {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *callbackEvent:
			if !ev.handle.cancelled.Load() {
				ev.handle.fn()
			}
		case *tcell.EventResize:
			v.screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey returns true when the viewer should quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.ctrl.StepPrev()
	case tcell.KeyRight:
		v.ctrl.StepNext()
	case tcell.KeyHome:
		v.ctrl.JumpFirst()
	case tcell.KeyEnd:
		v.ctrl.JumpLast()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			if v.ctrl.Status() == playback.StatusPlaying {
				v.ctrl.Pause()
			} else {
				v.ctrl.Play()
			}
			v.drawStatus()
			v.screen.Show()
		case 'g':
			v.ctrl.JumpFirst()
		case 'G':
			v.ctrl.JumpLast()
		case '+', '=':
			v.adjustSpeed(-100 * time.Millisecond)
		case '-', '_':
			v.adjustSpeed(100 * time.Millisecond)
		case 'r':
			v.ctrl.SetRepeat(!v.ctrl.Repeat())
			v.drawStatus()
			v.screen.Show()
		case 'w':
			v.ctrl.SetRayDisplay(!v.ctrl.RayDisplay())
			v.drawStatus()
			v.screen.Show()
		case 'c':
			v.ctrl.SetRayColor(v.ctrl.RayColor().Next())
			v.drawStatus()
			v.screen.Show()
		case 'v':
			v.ctrl.SetLabelMode(v.ctrl.LabelMode().Toggle())
		}
	}
	return false
}

// adjustSpeed moves the auto-advance interval within the 100..2000 ms
// slider range.
func (v *Viewer) adjustSpeed(delta time.Duration) {
	next := v.ctrl.Interval() + delta
	if next < 100*time.Millisecond {
		next = 100 * time.Millisecond
	}
	if next > 2000*time.Millisecond {
		next = 2000 * time.Millisecond
	}
	v.ctrl.SetSpeed(next)
	v.drawStatus()
	v.screen.Show()
}
