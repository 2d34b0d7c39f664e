// Package server exposes the playback session over HTTP: JSON state, PNG
// frames of the active position, and a control endpoint. All playback
// mutations run on a single loop goroutine; handlers only enqueue.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/park285/heatboard/internal/config"
	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/playback"
	"github.com/park285/heatboard/internal/render"
	"github.com/park285/heatboard/internal/timeline"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Server owns one timeline and one playback session.
type Server struct {
	addr      string
	tl        *timeline.Timeline
	renderer  *render.FrameRenderer
	logger    *zap.Logger
	sessionID string
	opening   string

	ctrl     *playback.Controller
	commands chan func()
	done     chan struct{}

	view *loopView
}

// New wires the playback loop for a loaded timeline.
func New(tl *timeline.Timeline, cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if tl == nil || tl.Len() == 0 {
		return nil, fmt.Errorf("timeline is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		addr:      cfg.ServeAddr,
		tl:        tl,
		renderer:  render.NewFrameRenderer(),
		logger:    logger,
		sessionID: uuid.NewString(),
		commands:  make(chan func(), 64),
		done:      make(chan struct{}),
		view:      &loopView{},
	}
	if code, title := tl.Opening(); code != "" {
		s.opening = fmt.Sprintf("%s %s", code, title)
	}

	ctrl, err := playback.NewController(s, s.view, tl, playback.Options{
		Length:    tl.Len(),
		Interval:  cfg.Interval(),
		Repeat:    cfg.Repeat,
		ShowRays:  cfg.ShowRays,
		RayColor:  domain.ParseRayColor(cfg.RayColor),
		LabelMode: domain.ParseLabelMode(cfg.LabelMode),
	}, logger)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

// Serve runs the playback loop and blocks serving HTTP until the listener
// fails or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	go s.loop()
	defer close(s.done)

	s.enqueueWait(func() { s.ctrl.Start() })
	s.logger.Info("serve mode listening",
		zap.String("addr", s.addr),
		zap.String("session_id", s.sessionID),
		zap.Int("positions", s.tl.Len()),
	)

	httpSrv := &fasthttp.Server{
		Handler: s.handle,
		Name:    "heatboard",
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe(s.addr) }()
	select {
	case <-ctx.Done():
		s.enqueueWait(func() { s.ctrl.Shutdown() })
		return httpSrv.Shutdown()
	case err := <-errCh:
		s.enqueueWait(func() { s.ctrl.Shutdown() })
		return err
	}
}

// loop serializes controller access: every command and timer callback runs
// here, preserving the single-threaded playback model.
func (s *Server) loop() {
	for {
		select {
		case fn := <-s.commands:
			fn()
		case <-s.done:
			return
		}
	}
}

// enqueueWait runs fn on the loop and waits for it, so handlers read state
// only after their mutation landed.
func (s *Server) enqueueWait(fn func()) {
	ack := make(chan struct{})
	select {
	case s.commands <- func() { fn(); close(ack) }:
		<-ack
	case <-s.done:
	}
}

type serverHandle struct {
	timer     *time.Timer
	cancelled chan struct{}
}

func (h *serverHandle) Cancel() {
	select {
	case <-h.cancelled:
	default:
		close(h.cancelled)
	}
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Schedule implements playback.Scheduler by bouncing the callback through
// the command loop. Cancellation is checked at delivery time, so a tick
// that raced its cancel is dropped rather than run stale.
func (s *Server) Schedule(d time.Duration, fn func()) playback.TimerHandle {
	h := &serverHandle{cancelled: make(chan struct{})}
	h.timer = time.AfterFunc(d, func() {
		wrapped := func() {
			select {
			case <-h.cancelled:
			default:
				fn()
			}
		}
		select {
		case s.commands <- wrapped:
		case <-s.done:
		}
	})
	return h
}
