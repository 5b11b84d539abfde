package render

import (
	"image/color"
	"testing"
)

func TestColorZeroBandCountIsBlack(t *testing.T) {
	gradients := []Gradient{
		GradientPitchRainbow,
		GradientFrequency,
		GradientEnergy,
		GradientCustom,
		GradientMonochrome,
	}
	want := color.RGBA{A: 255}
	for _, g := range gradients {
		if got := NewColorMapper(g).Color(0, 0, 1); got != want {
			t.Fatalf("gradient %d: Color(0, 0, 1) = %v, want black", g, got)
		}
	}
}

func TestEnergyGradientZeroMagnitudeIsBlue(t *testing.T) {
	m := NewColorMapper(GradientEnergy)
	got := m.Color(0, 64, 0)
	want := color.RGBA{B: 255, A: 255}
	if got != want {
		t.Fatalf("Color(magnitude=0) = %v, want pure blue %v", got, want)
	}
}

func TestEnergyGradientFullMagnitudeIsPureRed(t *testing.T) {
	m := NewColorMapper(GradientEnergy)
	got := m.Color(0, 64, 1)
	want := color.RGBA{R: 255, A: 255}
	if got != want {
		t.Fatalf("Color(magnitude=1) = %v, want pure red %v", got, want)
	}
}

func TestFrequencyGradientEndpoints(t *testing.T) {
	m := NewColorMapper(GradientFrequency)
	low := m.Color(0, 64, 1)
	if low.R != 255 || low.B != 0 {
		t.Fatalf("low band color = %v, want red", low)
	}
	high := m.Color(63, 64, 1)
	if high.B != 255 || high.R != 0 {
		t.Fatalf("high band color = %v, want blue", high)
	}
}

func TestCustomGradientEndpoints(t *testing.T) {
	m := NewColorMapper(GradientCustom)
	start := color.RGBA{R: 200, A: 255}
	end := color.RGBA{B: 200, A: 255}
	m.SetCustomColors(start, end)

	// Full magnitude keeps brightness at 1, so band 0 is the start color.
	if got := m.Color(0, 64, 1); got != start {
		t.Fatalf("Color(band 0) = %v, want start color %v", got, start)
	}
}

func TestMonochromeScalesByMagnitude(t *testing.T) {
	m := NewColorMapper(GradientMonochrome)
	m.SetMonochromeColor(color.RGBA{R: 200, G: 200, B: 200, A: 255})

	dim := m.Color(0, 64, 0.5)
	want := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	if dim != want {
		t.Fatalf("Color(magnitude=0.5) = %v, want %v", dim, want)
	}
	if got := m.Color(0, 64, 0); (got != color.RGBA{A: 255}) {
		t.Fatalf("Color(magnitude=0) = %v, want black", got)
	}
}

func TestPitchRainbowMagnitudeBrightens(t *testing.T) {
	m := NewColorMapper(GradientPitchRainbow)
	dim := m.Color(0, 64, 0)
	bright := m.Color(0, 64, 1)
	if dim.R >= bright.R {
		t.Fatalf("dim %v not darker than bright %v", dim, bright)
	}
}

func TestGradientFromString(t *testing.T) {
	cases := map[string]Gradient{
		"pitch_rainbow":   GradientPitchRainbow,
		"frequency-based": GradientFrequency,
		"energy-based":    GradientEnergy,
		"custom":          GradientCustom,
		"monochrome":      GradientMonochrome,
		"bogus":           GradientPitchRainbow,
	}
	for name, want := range cases {
		if got := GradientFromString(name); got != want {
			t.Fatalf("GradientFromString(%q) = %d, want %d", name, got, want)
		}
	}
}
