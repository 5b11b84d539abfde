package render

import (
	"image/color"

	"github.com/tdewolff/canvas"
)

// waveformFill is the interior color of the mirrored waveform polygon.
var waveformFill = color.RGBA{R: 255, G: 100, B: 200, A: 255}

// drawWaveform builds a closed polygon from a top contour and its
// mirror below the horizontal center line, fills it, then strokes each
// segment in its band color.
func (r *Renderer) drawWaveform(ctx *canvas.Context) {
	n := len(r.smoothed)
	centerY := float64(r.height) / 2
	maxAmplitude := float64(r.height) / 3

	topY := make([]float64, n)
	botY := make([]float64, n)
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		amp := r.magnitude(i) * maxAmplitude
		xs[i] = float64(i) * float64(r.width) / float64(n)
		topY[i] = centerY - amp
		botY[i] = centerY + amp
	}

	if n >= 2 {
		p := &canvas.Path{}
		p.MoveTo(xs[0], r.cy(topY[0]))
		for i := 1; i < n; i++ {
			p.LineTo(xs[i], r.cy(topY[i]))
		}
		for i := n - 1; i >= 0; i-- {
			p.LineTo(xs[i], r.cy(botY[i]))
		}
		p.Close()

		fillOnly(ctx, waveformFill)
		ctx.DrawPath(0, 0, p)
	}

	// Per-segment colored outline on both contours.
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeWidth(2)
	for i := 0; i < n-1; i++ {
		ctx.SetStrokeColor(r.mapper.Color(i, n, r.magnitude(i)))

		top := &canvas.Path{}
		top.MoveTo(xs[i], r.cy(topY[i]))
		top.LineTo(xs[i+1], r.cy(topY[i+1]))
		ctx.DrawPath(0, 0, top)

		bot := &canvas.Path{}
		bot.MoveTo(xs[i], r.cy(botY[i]))
		bot.LineTo(xs[i+1], r.cy(botY[i+1]))
		ctx.DrawPath(0, 0, bot)
	}
}
