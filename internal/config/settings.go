// Package config holds render settings: canvas geometry, visualizer
// style and colors, background source, beat effects, and encoding
// parameters. Settings load from JSON files merged over defaults, and
// a handful of built-in presets cover common looks.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encoding controls the ffmpeg video encode.
type Encoding struct {
	Codec       string `json:"codec"`
	Preset      string `json:"preset"`
	Bitrate     int    `json:"bitrate"`
	PixelFormat string `json:"pixel_format"`
	// HardwareCodec, when set, replaces Codec (e.g. h264_nvenc).
	HardwareCodec string `json:"hardware_codec"`
}

// Settings is the full configuration for one render.
type Settings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`

	Style     string  `json:"style"`
	NumBands  int     `json:"num_bands"`
	Scale     float64 `json:"scale"`
	Smoothing float64 `json:"smoothing"`
	FFTSize   int     `json:"fft_size"`

	Gradient         string   `json:"gradient"`
	CustomColorStart [3]uint8 `json:"custom_color_start"`
	CustomColorEnd   [3]uint8 `json:"custom_color_end"`
	MonochromeColor  [3]uint8 `json:"monochrome_color"`

	BackgroundType  string   `json:"background_type"`
	BackgroundPath  string   `json:"background_path"`
	BackgroundColor [3]uint8 `json:"background_color"`
	BackgroundFit   string   `json:"background_fit"`
	BackgroundBlur  float64  `json:"background_blur"`
	BackgroundBW    bool     `json:"background_bw"`
	Vignette        float64  `json:"vignette_intensity"`

	BeatEffectsEnabled bool    `json:"beat_effects_enabled"`
	BeatEffect         string  `json:"beat_effect"`
	BeatIntensity      float64 `json:"beat_intensity"`
	BeatDecay          float64 `json:"beat_decay"`

	// Strobe flashes on loud frames, driven by broadband intensity
	// rather than detected beats.
	StrobeEnabled bool     `json:"strobe_enabled"`
	StrobeColor   [3]uint8 `json:"strobe_color"`

	Encoding Encoding `json:"encoding"`
}

// Default returns the baseline settings a render starts from.
func Default() Settings {
	return Settings{
		Width:  1920,
		Height: 1080,
		FPS:    30,

		Style:     "bars",
		NumBands:  64,
		Scale:     1.0,
		Smoothing: 0.7,
		FFTSize:   2048,

		Gradient:         "pitch_rainbow",
		CustomColorStart: [3]uint8{255, 0, 255},
		CustomColorEnd:   [3]uint8{0, 255, 255},
		MonochromeColor:  [3]uint8{255, 255, 255},

		BackgroundType:  "solid_color",
		BackgroundColor: [3]uint8{0, 0, 0},
		BackgroundFit:   "stretch",

		BeatEffect:    "pulse",
		BeatIntensity: 0.3,
		BeatDecay:     0.9,

		StrobeColor: [3]uint8{255, 255, 255},

		Encoding: Encoding{
			Codec:       "libx264",
			Preset:      "medium",
			Bitrate:     5_000_000,
			PixelFormat: "yuv420p",
		},
	}
}

// Load reads a JSON settings file merged over the defaults, so files
// only need to list the fields they change.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks ranges that would otherwise fail deep inside a
// render.
func (s Settings) Validate() error {
	if s.Width < 16 || s.Height < 16 {
		return fmt.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	}
	if s.FPS < 1 || s.FPS > 240 {
		return fmt.Errorf("invalid frame rate %d", s.FPS)
	}
	if s.NumBands < 1 {
		return fmt.Errorf("invalid band count %d", s.NumBands)
	}
	if s.FFTSize < 2 || s.FFTSize&(s.FFTSize-1) != 0 {
		return fmt.Errorf("fft size %d is not a power of two", s.FFTSize)
	}
	if s.Smoothing < 0 || s.Smoothing >= 1 {
		return fmt.Errorf("smoothing %v out of range [0,1)", s.Smoothing)
	}
	if s.BackgroundBlur < 0 || s.BackgroundBlur > 100 {
		return fmt.Errorf("background blur %v out of range [0,100]", s.BackgroundBlur)
	}
	if s.Vignette < 0 || s.Vignette > 100 {
		return fmt.Errorf("vignette intensity %v out of range [0,100]", s.Vignette)
	}
	switch s.BackgroundFit {
	case "stretch", "tile", "center":
	default:
		return fmt.Errorf("unknown background fit %q", s.BackgroundFit)
	}
	if s.BeatDecay < 0 || s.BeatDecay >= 1 {
		return fmt.Errorf("beat decay %v out of range [0,1)", s.BeatDecay)
	}
	if s.Encoding.Bitrate < 1 {
		return fmt.Errorf("invalid bitrate %d", s.Encoding.Bitrate)
	}
	return nil
}

// VideoCodec returns the codec to encode with, preferring a hardware
// codec when one is configured.
func (e Encoding) VideoCodec() string {
	if e.HardwareCodec != "" {
		return e.HardwareCodec
	}
	return e.Codec
}

// Preset applies a named built-in look on top of the defaults.
func Preset(name string) (Settings, error) {
	s := Default()
	switch name {
	case "minimal":
		s.Style = "bars"
		s.Gradient = "monochrome"
	case "club":
		s.Style = "circle"
		s.Gradient = "pitch_rainbow"
		s.BackgroundColor = [3]uint8{10, 10, 30}
		s.Vignette = 50
		s.BeatEffectsEnabled = true
		s.BeatEffect = "flash"
	case "retro":
		s.Style = "bars"
		s.Gradient = "custom"
		s.BackgroundColor = [3]uint8{20, 0, 40}
		s.Vignette = 30
		s.BeatEffectsEnabled = true
		s.BeatEffect = "pulse"
	case "modern":
		s.Style = "filled_waveform"
		s.Gradient = "energy-based"
		s.BackgroundColor = [3]uint8{15, 15, 15}
		s.Vignette = 20
		s.BeatEffectsEnabled = true
		s.BeatEffect = "zoom"
	case "particle_burst":
		s.Style = "particle"
		s.Gradient = "pitch_rainbow"
	default:
		return s, fmt.Errorf("unknown preset %q", name)
	}
	return s, nil
}

// PresetNames lists the built-in presets.
func PresetNames() []string {
	return []string{"minimal", "club", "retro", "modern", "particle_burst"}
}
