package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/park285/heatboard/internal/domain"
	"github.com/park285/heatboard/internal/wave"
)

var errViewerClosed = fmt.Errorf("viewer torn down")

// RenderSnapshot implements playback.View: full repaint for a new active
// index, dropping any previous wave overlay.
func (v *Viewer) RenderSnapshot(index int) error {
	if v.closed {
		return errViewerClosed
	}
	snap, err := v.tl.Snapshot(index)
	if err != nil {
		return err
	}
	v.snap = snap
	v.index = index
	v.glows = nil
	v.draw()
	return nil
}

// RenderWave implements playback.View: replaces the highlight overlay with
// this tick's visible cells.
func (v *Viewer) RenderWave(glows []wave.Glow, color domain.RayColor) error {
	if v.closed {
		return errViewerClosed
	}
	v.glows = glows
	v.glowColor = color
	v.drawBoard()
	v.screen.Show()
	return nil
}

// ClearWave implements playback.View.
func (v *Viewer) ClearWave() error {
	if v.closed {
		return errViewerClosed
	}
	v.glows = nil
	v.drawBoard()
	v.screen.Show()
	return nil
}

func (v *Viewer) draw() {
	v.screen.Clear()
	v.drawHeader()
	v.drawBoard()
	v.drawStatus()
	v.drawHelp()
	v.screen.Show()
}

func (v *Viewer) drawHeader() {
	if v.snap == nil {
		return
	}
	title := fmt.Sprintf("Chess Board Heatmap - %s (%d/%d)", v.snap.Label, v.index+1, v.tl.Len())
	putText(v.screen, boardLeft, 0, title, tcell.StyleDefault.Bold(true))
	if v.opening != "" {
		putText(v.screen, boardLeft, 1, v.opening, tcell.StyleDefault.Dim(true))
	}
}

func (v *Viewer) drawBoard() {
	if v.snap == nil {
		return
	}
	glowAt := make(map[domain.Square]float64, len(v.glows))
	for _, g := range v.glows {
		if cur, ok := glowAt[g.Cell]; !ok || g.Intensity > cur {
			glowAt[g.Cell] = g.Intensity
		}
	}

	for row := 0; row < domain.GridSize; row++ {
		for col := 0; col < domain.GridSize; col++ {
			cell := domain.Square{Row: row, Col: col}
			bg := v.cellColor(cell, glowAt)
			style := tcell.StyleDefault.Background(bg).Foreground(v.annotationColor(cell))
			text := v.snap.Annotation(cell, v.ctrl.LabelMode())
			v.fillCell(row, col, text, style)
		}
		// Rank labels, 8 at the top row.
		label := fmt.Sprintf("%d", domain.GridSize-row)
		putText(v.screen, 1, boardTop+row*cellHeight+cellHeight/2, label, tcell.StyleDefault.Dim(true))
	}
	for col := 0; col < domain.GridSize; col++ {
		label := string(rune('a' + col))
		x := boardLeft + col*cellWidth + cellWidth/2
		putText(v.screen, x, boardTop+domain.GridSize*cellHeight, label, tcell.StyleDefault.Dim(true))
	}
}

func (v *Viewer) cellColor(cell domain.Square, glowAt map[domain.Square]float64) tcell.Color {
	heat := v.colors.At(v.snap.Heat[cell.Row][cell.Col])
	r, g, b := int32(heat.R), int32(heat.G), int32(heat.B)
	if intensity, ok := glowAt[cell]; ok {
		rr, rg, rb := v.glowColor.RGB()
		alpha := intensity * 0.6
		r = blend(r, int32(rr), alpha)
		g = blend(g, int32(rg), alpha)
		b = blend(b, int32(rb), alpha)
	}
	return tcell.NewRGBColor(r, g, b)
}

func (v *Viewer) annotationColor(cell domain.Square) tcell.Color {
	if v.snap.Heat[cell.Row][cell.Col] >= 8 {
		return tcell.NewRGBColor(0x10, 0x10, 0x10)
	}
	return tcell.NewRGBColor(0xf4, 0xf4, 0xf4)
}

func blend(base, overlay int32, alpha float64) int32 {
	out := float64(base)*(1-alpha) + float64(overlay)*alpha
	if out < 0 {
		return 0
	}
	if out > 255 {
		return 255
	}
	return int32(out)
}

func (v *Viewer) fillCell(row, col int, text string, style tcell.Style) {
	x0 := boardLeft + col*cellWidth
	y0 := boardTop + row*cellHeight
	for dy := 0; dy < cellHeight; dy++ {
		for dx := 0; dx < cellWidth; dx++ {
			v.screen.SetContent(x0+dx, y0+dy, ' ', nil, style)
		}
	}
	if text != "" {
		runes := []rune(text)
		v.screen.SetContent(x0+cellWidth/2-1, y0+cellHeight/2, runes[0], nil, style)
		for i, r := range runes[1:] {
			v.screen.SetContent(x0+cellWidth/2+i, y0+cellHeight/2, r, nil, style)
		}
	}
}

func (v *Viewer) drawStatus() {
	y := boardTop + domain.GridSize*cellHeight + 2
	status := fmt.Sprintf("[%s] speed %dms  repeat %s  rays %s  color %s  labels %s",
		v.ctrl.Status(),
		v.ctrl.Interval().Milliseconds(),
		onOff(v.ctrl.Repeat()),
		onOff(v.ctrl.RayDisplay()),
		v.ctrl.RayColor(),
		v.ctrl.LabelMode(),
	)
	clearLine(v.screen, y)
	putText(v.screen, boardLeft, y, status, tcell.StyleDefault)
}

func (v *Viewer) drawHelp() {
	y := boardTop + domain.GridSize*cellHeight + 3
	help := "←/→ step  space play/pause  g/G first/last  +/- speed  r repeat  w rays  c color  v labels  q quit"
	putText(v.screen, boardLeft, y, help, tcell.StyleDefault.Dim(true))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func putText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func clearLine(s tcell.Screen, y int) {
	width, _ := s.Size()
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}
