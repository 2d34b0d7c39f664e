// Package render produces PNG frames and animated GIFs of timeline
// snapshots: heat-colored cells, per-cell annotations, coordinates, and the
// translucent wave overlays.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/timeline"
	"github.com/park285/heatboard/internal/wave"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellSize     = 56
	sideMargin   = 28
	topMargin    = 52
	bottomMargin = 28
	gridLine     = 1
)

var (
	backgroundColor = color.RGBA{0x14, 0x15, 0x1c, 0xff}
	gridLineColor   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	titleTextColor  = color.RGBA{0xec, 0xef, 0xff, 0xff}
	coordTextColor  = color.RGBA{0x9a, 0xa0, 0xb8, 0xff}
	annotationLight = color.RGBA{0xf4, 0xf4, 0xf4, 0xff}
	annotationDark  = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// FrameOptions selects what a single rendered frame shows besides the
// heatmap itself.
type FrameOptions struct {
	Index     int
	Total     int
	LabelMode domain.LabelMode
	Glows     []wave.Glow
	RayColor  domain.RayColor
	Opening   string
}

// FrameRenderer rasterizes snapshots. It is stateless apart from the shared
// colormap and safe for concurrent use.
type FrameRenderer struct {
	colors *Colormap
}

func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{colors: NewColormap()}
}

// RenderPNG encodes one frame as PNG.
func (r *FrameRenderer) RenderPNG(ctx context.Context, snap *timeline.Snapshot, opts FrameOptions) ([]byte, error) {
	img, err := r.RenderFrame(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFrame rasterizes one frame into an RGBA image.
func (r *FrameRenderer) RenderFrame(ctx context.Context, snap *timeline.Snapshot, opts FrameOptions) (*image.RGBA, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	boardSize := cellSize * domain.GridSize
	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	origin := image.Point{X: sideMargin, Y: topMargin}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	r.drawCells(img, snap, origin)
	r.drawAnnotations(img, snap, opts.LabelMode, origin)
	if len(opts.Glows) > 0 {
		drawGlows(img, opts.Glows, opts.RayColor, origin)
	}
	drawCoordinates(img, origin)
	drawTitle(img, snap, opts, totalWidth)

	return img, nil
}

func (r *FrameRenderer) drawCells(img *image.RGBA, snap *timeline.Snapshot, origin image.Point) {
	boardSize := cellSize * domain.GridSize
	boardRect := image.Rect(origin.X-gridLine, origin.Y-gridLine,
		origin.X+boardSize+gridLine, origin.Y+boardSize+gridLine)
	imagedraw.Draw(img, boardRect, image.NewUniform(gridLineColor), image.Point{}, imagedraw.Src)

	for row := 0; row < domain.GridSize; row++ {
		for col := 0; col < domain.GridSize; col++ {
			x := origin.X + col*cellSize
			y := origin.Y + row*cellSize
			rect := image.Rect(x+gridLine, y+gridLine, x+cellSize-gridLine, y+cellSize-gridLine)
			clr := r.colors.At(snap.Heat[row][col])
			imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func (r *FrameRenderer) drawAnnotations(img *image.RGBA, snap *timeline.Snapshot, mode domain.LabelMode, origin image.Point) {
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	for row := 0; row < domain.GridSize; row++ {
		for col := 0; col < domain.GridSize; col++ {
			cell := domain.Square{Row: row, Col: col}
			piece, ok := snap.PieceAt(cell)
			if !ok {
				continue
			}
			var text string
			if mode == domain.LabelValues {
				text = snap.Annotation(cell, mode)
			} else {
				// The bitmap face has no figurine glyphs; fall back to
				// letters for raster output.
				text = string(domain.PieceLetter(piece))
			}
			clr := annotationLight
			if snap.Heat[row][col] >= 8 {
				clr = annotationDark
			}
			drawer.Src = image.NewUniform(clr)
			centerX := origin.X + col*cellSize + cellSize/2
			baseline := origin.Y + row*cellSize + cellSize/2 + basicfont.Face7x13.Metrics().Ascent.Ceil()/2
			drawCenteredText(drawer, text, centerX, baseline)
		}
	}
}

// drawGlows paints the wave overlay: one translucent rect per visible cell,
// alpha scaled from the wave intensity.
func drawGlows(img *image.RGBA, glows []wave.Glow, rayColor domain.RayColor, origin image.Point) {
	bounds := img.Bounds()
	scanner := rasterx.NewScannerGV(bounds.Dx(), bounds.Dy(), img, bounds)
	filler := rasterx.NewFiller(bounds.Dx(), bounds.Dy(), scanner)
	cr, cg, cb := rayColor.RGB()

	for _, glow := range glows {
		if !glow.Cell.InBounds() {
			continue
		}
		alpha := glow.Intensity * 0.6
		if alpha > 1 {
			alpha = 1
		}
		scanner.SetColor(color.NRGBA{R: cr, G: cg, B: cb, A: uint8(alpha * 255)})
		x := float64(origin.X + glow.Cell.Col*cellSize)
		y := float64(origin.Y + glow.Cell.Row*cellSize)
		rasterx.AddRect(x, y, x+cellSize, y+cellSize, 0, filler)
		filler.Draw()
		filler.Clear()
	}
}

func drawCoordinates(img *image.RGBA, origin image.Point) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordTextColor),
		Face: basicfont.Face7x13,
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	boardBottom := origin.Y + cellSize*domain.GridSize

	for row := 0; row < domain.GridSize; row++ {
		label := fmt.Sprintf("%d", domain.GridSize-row)
		baseline := origin.Y + row*cellSize + cellSize/2 + ascent/2
		drawCenteredText(drawer, label, origin.X-sideMargin/2, baseline)
	}
	for col := 0; col < domain.GridSize; col++ {
		label := string(rune('a' + col))
		centerX := origin.X + col*cellSize + cellSize/2
		drawCenteredText(drawer, label, centerX, boardBottom+ascent+4)
	}
}

func drawTitle(img *image.RGBA, snap *timeline.Snapshot, opts FrameOptions, totalWidth int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(titleTextColor),
		Face: basicfont.Face7x13,
	}
	title := snap.Label
	if opts.Total > 0 {
		title = fmt.Sprintf("%s (%d/%d)", snap.Label, opts.Index+1, opts.Total)
	}
	drawCenteredText(drawer, title, totalWidth/2, topMargin/2)

	if opts.Opening != "" {
		drawer.Src = image.NewUniform(coordTextColor)
		drawCenteredText(drawer, opts.Opening, totalWidth/2, topMargin/2+basicfont.Face7x13.Metrics().Height.Ceil()+2)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
