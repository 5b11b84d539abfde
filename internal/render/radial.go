package render

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
)

const (
	rayDotRadius    = 5.0
	rayStrokeWidth  = 3.0
	referenceStroke = 2.0
)

// drawRadial lays the bands out as rays from the canvas center at
// equal angular steps, each ray ending in a filled dot, with a static
// reference circle for context.
func (r *Renderer) drawRadial(ctx *canvas.Context) {
	n := len(r.smoothed)
	centerX := float64(r.width) / 2
	centerY := float64(r.height) / 2
	baseRadius := math.Min(float64(r.width), float64(r.height)) / 4
	angleStep := 2 * math.Pi / float64(n)

	for i := 0; i < n; i++ {
		mag := r.magnitude(i)
		angle := float64(i) * angleStep
		rayLength := mag * baseRadius * 1.5

		startX := centerX + baseRadius*math.Cos(angle)
		startY := centerY + baseRadius*math.Sin(angle)
		endX := startX + rayLength*math.Cos(angle)
		endY := startY + rayLength*math.Sin(angle)

		c := r.mapper.Color(i, n, mag)

		ray := &canvas.Path{}
		ray.MoveTo(startX, r.cy(startY))
		ray.LineTo(endX, r.cy(endY))
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(c)
		ctx.SetStrokeWidth(rayStrokeWidth)
		ctx.DrawPath(0, 0, ray)

		fillOnly(ctx, c)
		ctx.DrawPath(endX, r.cy(endY), canvas.Circle(rayDotRadius))
	}

	// Reference circle around the center.
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(color.RGBA{R: 100, G: 100, B: 100, A: 255})
	ctx.SetStrokeWidth(referenceStroke)
	ctx.DrawPath(centerX, r.cy(centerY), canvas.Circle(baseRadius))
}
