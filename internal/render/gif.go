package render

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	imagedraw "image/draw"
	"image/gif"
	"io"
	"time"

	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/rays"
	"github.com/park285/heatboard/internal/timeline"
	"github.com/park285/heatboard/internal/wave"
)

// ExportOptions shapes an animated export. FramesPerMove wave frames are
// rendered per position; Stride > 1 keeps only every Nth position for
// smaller files.
type ExportOptions struct {
	Interval      time.Duration
	FramesPerMove int
	Stride        int
	ShowWaves     bool
	LabelMode     domain.LabelMode
	RayColor      domain.RayColor
	Opening       string
}

// ExportGIF renders the whole timeline as an animated GIF. Each position
// contributes FramesPerMove frames whose wave phase sweeps one cycle, so the
// highlight travels even in the static export.
func (r *FrameRenderer) ExportGIF(ctx context.Context, tl *timeline.Timeline, opts ExportOptions, w io.Writer) error {
	if tl == nil || tl.Len() == 0 {
		return fmt.Errorf("timeline is empty")
	}
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}
	if opts.FramesPerMove <= 0 {
		if opts.ShowWaves {
			opts.FramesPerMove = 5
		} else {
			opts.FramesPerMove = 1
		}
	}
	if opts.Stride <= 0 {
		opts.Stride = 1
	}

	anim := &gif.GIF{}
	frameDelay := int(opts.Interval.Milliseconds()) / opts.FramesPerMove / 10
	if frameDelay < 2 {
		frameDelay = 2
	}

	for index := 0; index < tl.Len(); index += opts.Stride {
		snap, err := tl.Snapshot(index)
		if err != nil {
			return err
		}
		var paths [][]domain.Square
		if opts.ShowWaves && opts.FramesPerMove > 1 {
			attackRays, err := tl.AttackRays(index)
			if err != nil {
				return err
			}
			for _, ray := range attackRays {
				paths = append(paths, rays.Interpolate(ray.From, ray.To))
			}
		}

		for f := 0; f < opts.FramesPerMove; f++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			phase := float64(f) / float64(opts.FramesPerMove)
			var glows []wave.Glow
			for _, path := range paths {
				glows = append(glows, wave.Visibility(path, phase)...)
			}
			frame, err := r.RenderFrame(ctx, snap, FrameOptions{
				Index:     index,
				Total:     tl.Len(),
				LabelMode: opts.LabelMode,
				Glows:     glows,
				RayColor:  opts.RayColor,
				Opening:   opts.Opening,
			})
			if err != nil {
				return err
			}
			paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
			imagedraw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
			anim.Image = append(anim.Image, paletted)
			anim.Delay = append(anim.Delay, frameDelay)
		}
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
