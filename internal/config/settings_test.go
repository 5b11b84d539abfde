package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/specviz/internal/render"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"style": "circle", "fps": 60, "encoding": {"codec": "libx265", "preset": "slow", "bitrate": 8000000, "pixel_format": "yuv420p"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Style != "circle" {
		t.Fatalf("Style = %q, want circle", s.Style)
	}
	if s.FPS != 60 {
		t.Fatalf("FPS = %d, want 60", s.FPS)
	}
	if s.Encoding.Codec != "libx265" {
		t.Fatalf("Encoding.Codec = %q, want libx265", s.Encoding.Codec)
	}
	// Untouched fields keep their defaults.
	if s.Width != 1920 || s.NumBands != 64 {
		t.Fatalf("defaults lost: width=%d bands=%d", s.Width, s.NumBands)
	}
}

func TestStrobeSettings(t *testing.T) {
	d := Default()
	if d.StrobeEnabled {
		t.Fatal("Default().StrobeEnabled = true, want false")
	}
	if d.StrobeColor != [3]uint8{255, 255, 255} {
		t.Fatalf("Default().StrobeColor = %v, want white", d.StrobeColor)
	}

	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"strobe_enabled": true, "strobe_color": [255, 0, 0]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.StrobeEnabled || s.StrobeColor != [3]uint8{255, 0, 0} {
		t.Fatalf("strobe settings = %v/%v, want enabled red", s.StrobeEnabled, s.StrobeColor)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load() of missing file succeeded, want error")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"fps": 0}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with fps=0 succeeded, want validation error")
	}
}

func TestValidateCatchesBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.Width = 0 }},
		{"fft not power of two", func(s *Settings) { s.FFTSize = 1000 }},
		{"smoothing out of range", func(s *Settings) { s.Smoothing = 1 }},
		{"blur out of range", func(s *Settings) { s.BackgroundBlur = 101 }},
		{"unknown fit", func(s *Settings) { s.BackgroundFit = "zoom" }},
		{"beat decay out of range", func(s *Settings) { s.BeatDecay = 1 }},
		{"zero bitrate", func(s *Settings) { s.Encoding.Bitrate = 0 }},
	}
	for _, tc := range cases {
		s := Default()
		tc.mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: Validate() = nil, want error", tc.name)
		}
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) error = %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("Preset(%q).Validate() error = %v", name, err)
		}
	}
}

func TestPresetStringsRoundTrip(t *testing.T) {
	wantGradient := map[string]render.Gradient{
		"minimal":        render.GradientMonochrome,
		"club":           render.GradientPitchRainbow,
		"retro":          render.GradientCustom,
		"modern":         render.GradientEnergy,
		"particle_burst": render.GradientPitchRainbow,
	}
	wantStyle := map[string]render.Style{
		"minimal":        render.StyleBars,
		"club":           render.StyleRadial,
		"retro":          render.StyleBars,
		"modern":         render.StyleWaveform,
		"particle_burst": render.StyleParticle,
	}

	for _, name := range PresetNames() {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) error = %v", name, err)
		}
		if got := render.GradientFromString(s.Gradient); got != wantGradient[name] {
			t.Fatalf("preset %q gradient %q parsed to %d, want %d", name, s.Gradient, got, wantGradient[name])
		}
		if got := render.StyleFromString(s.Style); got != wantStyle[name] {
			t.Fatalf("preset %q style %q parsed to %d, want %d", name, s.Style, got, wantStyle[name])
		}
	}
}

func TestPresetClub(t *testing.T) {
	s, err := Preset("club")
	if err != nil {
		t.Fatalf("Preset() error = %v", err)
	}
	if s.Style != "circle" || !s.BeatEffectsEnabled || s.BeatEffect != "flash" {
		t.Fatalf("club preset = style %q, beat %v/%q; want circle flash", s.Style, s.BeatEffectsEnabled, s.BeatEffect)
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("vaporwave"); err == nil {
		t.Fatal("Preset() with unknown name succeeded, want error")
	}
}

func TestVideoCodecPrefersHardware(t *testing.T) {
	e := Encoding{Codec: "libx264", HardwareCodec: "h264_nvenc"}
	if got := e.VideoCodec(); got != "h264_nvenc" {
		t.Fatalf("VideoCodec() = %q, want h264_nvenc", got)
	}
	e.HardwareCodec = ""
	if got := e.VideoCodec(); got != "libx264" {
		t.Fatalf("VideoCodec() = %q, want libx264", got)
	}
}
