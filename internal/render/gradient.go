package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient selects how band index and magnitude map to color.
type Gradient uint8

const (
	// GradientPitchRainbow maps band index to hue across the full wheel.
	GradientPitchRainbow Gradient = iota
	// GradientFrequency splits the spectrum into red/yellow, yellow/cyan
	// and cyan/blue thirds.
	GradientFrequency
	// GradientEnergy maps magnitude along a fixed blue-green-red-yellow path.
	GradientEnergy
	// GradientCustom interpolates between two configured endpoint colors.
	GradientCustom
	// GradientMonochrome scales a single configured color by magnitude.
	GradientMonochrome
)

// GradientFromString parses a gradient name, defaulting to pitch rainbow.
func GradientFromString(s string) Gradient {
	switch s {
	case "frequency-based", "frequency_based":
		return GradientFrequency
	case "energy-based", "energy_based":
		return GradientEnergy
	case "custom":
		return GradientCustom
	case "monochrome":
		return GradientMonochrome
	default:
		return GradientPitchRainbow
	}
}

// ColorMapper maps (band index, band count, magnitude) to an RGB color
// under one gradient policy, fixed at construction.
type ColorMapper struct {
	gradient    Gradient
	customStart color.RGBA
	customEnd   color.RGBA
	mono        color.RGBA
}

// NewColorMapper creates a mapper with default endpoint colors
// (magenta to cyan) and a white monochrome color.
func NewColorMapper(g Gradient) *ColorMapper {
	return &ColorMapper{
		gradient:    g,
		customStart: color.RGBA{R: 255, G: 0, B: 255, A: 255},
		customEnd:   color.RGBA{R: 0, G: 255, B: 255, A: 255},
		mono:        color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// SetCustomColors configures the endpoints used by GradientCustom.
func (m *ColorMapper) SetCustomColors(start, end color.RGBA) {
	m.customStart = start
	m.customEnd = end
}

// SetMonochromeColor configures the color used by GradientMonochrome.
func (m *ColorMapper) SetMonochromeColor(c color.RGBA) {
	m.mono = c
}

// Color maps a band to a color. Magnitude is clamped to [0,1]; a zero
// band count yields black under every policy.
func (m *ColorMapper) Color(index, total int, magnitude float64) color.RGBA {
	if total <= 0 {
		return color.RGBA{A: 255}
	}
	magnitude = clamp01(magnitude)

	switch m.gradient {
	case GradientFrequency:
		return frequencyColor(index, total)
	case GradientEnergy:
		return energyColor(magnitude)
	case GradientCustom:
		return m.customColor(index, total, magnitude)
	case GradientMonochrome:
		return scaleColor(m.mono, magnitude)
	default:
		return pitchRainbowColor(index, total, magnitude)
	}
}

// pitchRainbowColor maps index/total to hue and magnitude to brightness
// in [0.5,1.0].
func pitchRainbowColor(index, total int, magnitude float64) color.RGBA {
	hue := float64(index) / float64(total) * 360
	c := colorful.Hsv(hue, 1, 0.5+magnitude*0.5)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// frequencyColor colors the low third red to yellow, the middle third
// yellow to cyan, and the high third cyan to blue.
func frequencyColor(index, total int) color.RGBA {
	third := float64(total) / 3
	fi := float64(index)

	switch {
	case fi < third:
		return color.RGBA{R: 255, G: uint8(255 * fi / third), A: 255}
	case fi < 2*third:
		t := (fi - third) / third
		return color.RGBA{R: uint8(255 * (1 - t)), G: 255, B: uint8(255 * t), A: 255}
	default:
		t := (fi - 2*third) / third
		return color.RGBA{G: uint8(255 * (1 - t)), B: 255, A: 255}
	}
}

// energyColor maps magnitude along blue -> green -> red -> yellow.
func energyColor(magnitude float64) color.RGBA {
	switch {
	case magnitude < 0.33:
		return color.RGBA{G: uint8(255 * magnitude * 3), B: 255, A: 255}
	case magnitude < 0.66:
		t := (magnitude - 0.33) * 3
		return color.RGBA{R: uint8(255 * t), G: 255, B: uint8(255 * (1 - t)), A: 255}
	default:
		// The last segment spans 0.34 of the range, so t overshoots 1
		// at full magnitude and must be clamped before the conversion.
		t := clamp01((magnitude - 0.66) * 3)
		return color.RGBA{R: 255, G: uint8(255 * (1 - t)), A: 255}
	}
}

// customColor interpolates between the configured endpoints by
// index/total, brightness-scaled by magnitude in [0.5,1.0].
func (m *ColorMapper) customColor(index, total int, magnitude float64) color.RGBA {
	t := float64(index) / float64(total)
	brightness := 0.5 + magnitude*0.5
	lerp := func(a, b uint8) uint8 {
		v := (float64(a) + (float64(b)-float64(a))*t) * brightness
		return uint8(clamp(v, 0, 255))
	}
	return color.RGBA{
		R: lerp(m.customStart.R, m.customEnd.R),
		G: lerp(m.customStart.G, m.customEnd.G),
		B: lerp(m.customStart.B, m.customEnd.B),
		A: 255,
	}
}

// scaleColor multiplies each component by magnitude.
func scaleColor(c color.RGBA, magnitude float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * magnitude),
		G: uint8(float64(c.G) * magnitude),
		B: uint8(float64(c.B) * magnitude),
		A: 255,
	}
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
