package render

import (
	"image/color"

	"github.com/tdewolff/canvas"
)

const (
	barWidth   = 20.0
	barSpacing = 5.0
	barBaseGap = 100.0 // pixels between the bar base and the bottom edge
)

// drawBars draws evenly spaced vertical bars centered horizontally,
// heights proportional to smoothed magnitude and clamped to half the
// canvas height.
func (r *Renderer) drawBars(ctx *canvas.Context) {
	n := len(r.smoothed)
	totalWidth := float64(n) * (barWidth + barSpacing)
	startX := (float64(r.width) - totalWidth) / 2
	baseY := float64(r.height) - barBaseGap
	maxHeight := float64(r.height) / 2

	outline := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for i := 0; i < n; i++ {
		mag := r.magnitude(i)
		barHeight := mag * maxHeight
		x := startX + float64(i)*(barWidth+barSpacing)

		ctx.SetFillColor(r.mapper.Color(i, n, mag))
		ctx.SetStrokeColor(outline)
		ctx.SetStrokeWidth(1)
		ctx.DrawPath(x, r.cy(baseY), canvas.Rectangle(barWidth, barHeight))
	}
}
