// Package render turns one frame's band-energy vector plus a
// background image into a finished visual. The four visual styles are
// a closed set, dispatched from a single Renderer value; cross-frame
// state (the smoothing buffer, the particle pool) lives on that value
// and is never shared between instances.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// Style selects the visual drawn over the background.
type Style uint8

const (
	StyleBars Style = iota
	StyleWaveform
	StyleRadial
	StyleParticle
)

// StyleFromString parses a style name, defaulting to bars.
func StyleFromString(s string) Style {
	switch s {
	case "waveform", "filled_waveform":
		return StyleWaveform
	case "circle", "radial":
		return StyleRadial
	case "particle":
		return StyleParticle
	default:
		return StyleBars
	}
}

// Options configures a Renderer.
type Options struct {
	Width  int
	Height int

	// Scale multiplies band magnitudes before drawing. Zero means 1.
	Scale float64

	// Smoothing is the exponential smoothing factor in [0,1): each
	// frame keeps that fraction of the previous smoothed value.
	Smoothing float64

	// Rand drives particle spawning. Nil falls back to the global
	// source; pass a seeded source for deterministic output.
	Rand *rand.Rand
}

// Renderer renders band frames in one style. Not safe for concurrent
// use; frames must be rendered in order on one goroutine because the
// smoothing buffer and particle pool carry over between calls.
type Renderer struct {
	style  Style
	mapper *ColorMapper

	width     int
	height    int
	scale     float64
	smoothing float64

	smoothed  []float64
	particles []particle
	rng       *rand.Rand
}

// New creates a renderer with empty cross-frame state.
func New(style Style, mapper *ColorMapper, opts Options) *Renderer {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Renderer{
		style:     style,
		mapper:    mapper,
		width:     opts.Width,
		height:    opts.Height,
		scale:     scale,
		smoothing: opts.Smoothing,
		rng:       rng,
	}
}

// Render draws one frame over the background and returns the result.
// The background is copied, never mutated.
func (r *Renderer) Render(bands []float64, background image.Image) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if background != nil {
		draw.Draw(img, img.Bounds(), background, background.Bounds().Min, draw.Src)
	}
	if len(bands) == 0 {
		return img
	}

	r.smooth(bands)

	c := canvas.New(float64(r.width), float64(r.height))
	ctx := canvas.NewContext(c)

	switch r.style {
	case StyleWaveform:
		r.drawWaveform(ctx)
	case StyleRadial:
		r.drawRadial(ctx)
	case StyleParticle:
		r.drawParticles(ctx)
	default:
		r.drawBars(ctx)
	}

	drawn := rasterizer.Draw(c, canvas.DPMM(1), canvas.SRGBColorSpace{})
	draw.Draw(img, img.Bounds(), drawn, drawn.Bounds().Min, draw.Over)
	return img
}

// smooth folds the incoming bands into the per-instance smoothing
// buffer: smoothed = smoothed*a + new*(1-a). The first frame seeds the
// buffer directly.
func (r *Renderer) smooth(bands []float64) {
	if len(r.smoothed) != len(bands) {
		r.smoothed = make([]float64, len(bands))
		copy(r.smoothed, bands)
		return
	}
	for i, v := range bands {
		r.smoothed[i] = r.smoothed[i]*r.smoothing + v*(1-r.smoothing)
	}
}

// magnitude returns the scaled, clamped magnitude for a band.
func (r *Renderer) magnitude(i int) float64 {
	return clamp01(r.smoothed[i] * r.scale)
}

// cy converts a top-down image y coordinate to the canvas's bottom-up
// coordinate space.
func (r *Renderer) cy(y float64) float64 {
	return float64(r.height) - y
}

func fillOnly(ctx *canvas.Context, c color.Color) {
	ctx.SetFillColor(c)
	ctx.SetStrokeColor(canvas.Transparent)
}
