package render

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func testBands(n int) []float64 {
	bands := make([]float64, n)
	for i := range bands {
		bands[i] = float64(i%10) / 10
	}
	bands[0] = 1
	return bands
}

func solidBackground(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestRenderDimensions(t *testing.T) {
	styles := []Style{StyleBars, StyleWaveform, StyleRadial, StyleParticle}
	mapper := NewColorMapper(GradientPitchRainbow)
	bg := solidBackground(320, 180, color.RGBA{A: 255})

	for _, style := range styles {
		r := New(style, mapper, Options{Width: 320, Height: 180})
		img := r.Render(testBands(16), bg)
		if got := img.Bounds(); got.Dx() != 320 || got.Dy() != 180 {
			t.Fatalf("style %d: Render() bounds = %v, want 320x180", style, got)
		}
	}
}

func TestRenderEmptyBandsReturnsBackground(t *testing.T) {
	mapper := NewColorMapper(GradientPitchRainbow)
	r := New(StyleBars, mapper, Options{Width: 64, Height: 64})
	bg := solidBackground(64, 64, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	img := r.Render(nil, bg)
	if !bytes.Equal(img.Pix, bg.Pix) {
		t.Fatal("Render(nil bands) altered the background")
	}
}

func TestRenderDoesNotMutateBackground(t *testing.T) {
	mapper := NewColorMapper(GradientPitchRainbow)
	r := New(StyleBars, mapper, Options{Width: 128, Height: 128})
	bg := solidBackground(128, 128, color.RGBA{R: 5, G: 5, B: 5, A: 255})
	before := append([]byte(nil), bg.Pix...)

	r.Render(testBands(8), bg)
	if !bytes.Equal(bg.Pix, before) {
		t.Fatal("Render() mutated the background image")
	}
}

func TestRenderKeepsBackgroundBehindBars(t *testing.T) {
	mapper := NewColorMapper(GradientPitchRainbow)
	r := New(StyleBars, mapper, Options{Width: 160, Height: 160})
	want := color.RGBA{R: 40, G: 50, B: 60, A: 255}
	bg := solidBackground(160, 160, want)

	bands := make([]float64, 16)
	for i := range bands {
		bands[i] = 0.1
	}
	img := r.Render(bands, bg)
	// Short bars stay near the bottom edge, so the top row is pure
	// background after compositing.
	if got := img.RGBAAt(80, 0); got != want {
		t.Fatalf("Render() top row = %v, want background %v", got, want)
	}
}

func TestRenderDrawsSomething(t *testing.T) {
	mapper := NewColorMapper(GradientPitchRainbow)
	bg := solidBackground(320, 180, color.RGBA{A: 255})

	for _, style := range []Style{StyleBars, StyleWaveform, StyleRadial} {
		r := New(style, mapper, Options{Width: 320, Height: 180})
		img := r.Render(testBands(16), bg)
		if bytes.Equal(img.Pix, bg.Pix) {
			t.Fatalf("style %d: Render() produced an unchanged background", style)
		}
	}
}

func TestRenderDeterministicForFreshRenderers(t *testing.T) {
	// Stateless styles produce identical output when rendered by two
	// fresh renderers with the same input.
	bg := solidBackground(160, 90, color.RGBA{A: 255})
	bands := testBands(16)

	for _, style := range []Style{StyleBars, StyleWaveform, StyleRadial} {
		a := New(style, NewColorMapper(GradientFrequency), Options{Width: 160, Height: 90})
		b := New(style, NewColorMapper(GradientFrequency), Options{Width: 160, Height: 90})
		if !bytes.Equal(a.Render(bands, bg).Pix, b.Render(bands, bg).Pix) {
			t.Fatalf("style %d: fresh renderers disagree on identical input", style)
		}
	}
}

func TestParticleRenderSeededDeterminism(t *testing.T) {
	bg := solidBackground(160, 90, color.RGBA{A: 255})
	bands := testBands(16)

	render := func(seed int64) []byte {
		r := New(StyleParticle, NewColorMapper(GradientPitchRainbow), Options{
			Width:  160,
			Height: 90,
			Rand:   rand.New(rand.NewSource(seed)),
		})
		var last []byte
		for i := 0; i < 5; i++ {
			last = r.Render(bands, bg).Pix
		}
		return last
	}

	if !bytes.Equal(render(7), render(7)) {
		t.Fatal("particle rendering differs for identical seeds")
	}
}

func TestSmoothingConverges(t *testing.T) {
	r := New(StyleBars, NewColorMapper(GradientPitchRainbow), Options{
		Width: 64, Height: 64, Smoothing: 0.5,
	})

	// First frame seeds the buffer directly.
	r.smooth([]float64{1, 0})
	if r.smoothed[0] != 1 || r.smoothed[1] != 0 {
		t.Fatalf("seed frame smoothed = %v, want [1 0]", r.smoothed)
	}

	// Subsequent frames move halfway toward the new value.
	r.smooth([]float64{0, 1})
	if r.smoothed[0] != 0.5 || r.smoothed[1] != 0.5 {
		t.Fatalf("smoothed = %v, want [0.5 0.5]", r.smoothed)
	}
}

func TestStyleFromString(t *testing.T) {
	cases := map[string]Style{
		"bars":            StyleBars,
		"waveform":        StyleWaveform,
		"filled_waveform": StyleWaveform,
		"circle":          StyleRadial,
		"radial":          StyleRadial,
		"particle":        StyleParticle,
		"unknown":         StyleBars,
	}
	for name, want := range cases {
		if got := StyleFromString(name); got != want {
			t.Fatalf("StyleFromString(%q) = %d, want %d", name, got, want)
		}
	}
}
