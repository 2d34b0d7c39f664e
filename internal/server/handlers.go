package server

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/render"
	"github.com/park285/heatboard/internal/wave"
	"github.com/park285/heatboard/pkg/heatdto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// loopView implements playback.View for serve mode. It only records what the
// controller last pushed; handlers read the fields through the command loop,
// so no lock is needed.
type loopView struct {
	index int
	glows []wave.Glow
	color domain.RayColor
}

func (v *loopView) RenderSnapshot(index int) error {
	v.index = index
	v.glows = nil
	return nil
}

func (v *loopView) RenderWave(glows []wave.Glow, color domain.RayColor) error {
	v.glows = glows
	v.color = color
	return nil
}

func (v *loopView) ClearWave() error {
	v.glows = nil
	return nil
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/api/state":
		s.handleState(ctx)
	case "/api/board.png":
		s.handleFrame(ctx)
	case "/api/control":
		s.handleControl(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "unknown endpoint")
	}
}

func (s *Server) handleState(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "GET required")
		return
	}
	var st heatdto.State
	s.enqueueWait(func() { st = s.stateLocked() })
	writeJSON(ctx, fasthttp.StatusOK, st)
}

// stateLocked must run on the command loop.
func (s *Server) stateLocked() heatdto.State {
	st := heatdto.State{
		SessionID:  s.sessionID,
		Index:      s.ctrl.Index(),
		Total:      s.tl.Len(),
		Status:     s.ctrl.Status().String(),
		IntervalMS: int(s.ctrl.Interval() / time.Millisecond),
		Repeat:     s.ctrl.Repeat(),
		ShowRays:   s.ctrl.RayDisplay(),
		RayColor:   string(s.ctrl.RayColor()),
		LabelMode:  string(s.ctrl.LabelMode()),
		Opening:    s.opening,
	}
	if snap, err := s.tl.Snapshot(st.Index); err == nil {
		st.Label = snap.Label
		st.SAN = snap.SAN
	}
	return st
}

// handleFrame renders a PNG of one position. Without ?index= it draws the
// active position including the current wave overlay; an explicit index
// draws that position plain.
func (s *Server) handleFrame(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "GET required")
		return
	}

	var (
		index int
		opts  render.FrameOptions
	)
	if arg := ctx.QueryArgs().Peek("index"); len(arg) > 0 {
		n, err := strconv.Atoi(string(arg))
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "index must be an integer")
			return
		}
		index = n
		s.enqueueWait(func() {
			opts = render.FrameOptions{
				Index:     index,
				Total:     s.tl.Len(),
				LabelMode: s.ctrl.LabelMode(),
				RayColor:  s.ctrl.RayColor(),
				Opening:   s.opening,
			}
		})
	} else {
		s.enqueueWait(func() {
			index = s.ctrl.Index()
			opts = render.FrameOptions{
				Index:     index,
				Total:     s.tl.Len(),
				LabelMode: s.ctrl.LabelMode(),
				Glows:     append([]wave.Glow(nil), s.view.glows...),
				RayColor:  s.ctrl.RayColor(),
				Opening:   s.opening,
			}
		})
	}

	snap, err := s.tl.Snapshot(index)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	png, err := s.renderer.RenderPNG(ctx, snap, opts)
	if err != nil {
		s.logger.Error("frame render failed", zap.Int("index", index), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "frame render failed")
		return
	}
	ctx.SetContentType("image/png")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(png)
}

func (s *Server) handleControl(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "POST required")
		return
	}
	var req heatdto.ControlRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		st    heatdto.State
		badOp bool
	)
	s.enqueueWait(func() {
		switch req.Op {
		case "play":
			s.ctrl.Play()
		case "pause":
			s.ctrl.Pause()
		case "next":
			s.ctrl.StepNext()
		case "prev":
			s.ctrl.StepPrev()
		case "first":
			s.ctrl.JumpFirst()
		case "last":
			s.ctrl.JumpLast()
		case "":
			// Settings-only request.
		default:
			badOp = true
			return
		}
		if req.IntervalMS > 0 {
			s.ctrl.SetSpeed(clampInterval(req.IntervalMS))
		}
		if req.Repeat != nil {
			s.ctrl.SetRepeat(*req.Repeat)
		}
		if req.ShowRays != nil {
			s.ctrl.SetRayDisplay(*req.ShowRays)
		}
		if req.RayColor != "" {
			s.ctrl.SetRayColor(domain.ParseRayColor(req.RayColor))
		}
		if req.LabelMode != "" {
			s.ctrl.SetLabelMode(domain.ParseLabelMode(req.LabelMode))
		}
		st = s.stateLocked()
	})
	if badOp {
		writeError(ctx, fasthttp.StatusBadRequest, "unknown op "+strconv.Quote(req.Op))
		return
	}
	s.logger.Debug("control applied",
		zap.String("op", req.Op),
		zap.Int("index", st.Index),
		zap.String("status", st.Status),
	)
	writeJSON(ctx, fasthttp.StatusOK, st)
}

// clampInterval keeps requested speeds inside the slider range.
func clampInterval(ms int) time.Duration {
	if ms < 100 {
		ms = 100
	}
	if ms > 2000 {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, heatdto.ErrorResponse{Error: msg})
}
