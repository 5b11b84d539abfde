// Package background supplies per-frame background images for the
// renderer: a solid color, a still image, or a looping video clip.
// Asset failures are recoverable; the provider falls back to a solid
// color instead of aborting a render.
package background

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/olivier-w/specviz/internal/effects"
)

// Mode selects the background source.
type Mode int

const (
	ModeSolid Mode = iota
	ModeImage
	ModeVideo
)

// ModeFromString parses a background mode name, defaulting to solid.
func ModeFromString(s string) Mode {
	switch s {
	case "image":
		return ModeImage
	case "video":
		return ModeVideo
	default:
		return ModeSolid
	}
}

// Config describes the background source and the post-processing
// applied to image and video backgrounds.
type Config struct {
	Mode   Mode
	Path   string
	Color  color.RGBA
	Width  int
	Height int
	FPS    int

	Fit       effects.FitMode
	Blur      float64 // 0-100
	Vignette  float64 // 0-100
	Grayscale bool
}

// Provider yields the background image for each output frame.
type Provider struct {
	cfg   Config
	solid *image.RGBA
	still *image.RGBA
	clip  *clip
}

// NewProvider builds a provider for the configured source. It never
// fails: if an image or video asset cannot be used, it logs a warning
// and falls back to the solid color.
func NewProvider(cfg Config) *Provider {
	p := &Provider{
		cfg:   cfg,
		solid: effects.SolidImage(cfg.Width, cfg.Height, cfg.Color),
	}

	switch cfg.Mode {
	case ModeImage:
		still, err := loadStill(cfg)
		if err != nil {
			logrus.WithError(err).WithField("path", cfg.Path).
				Warn("background image unavailable, using solid color")
			break
		}
		p.still = still
	case ModeVideo:
		c, err := openClip(cfg.Path, cfg.Width, cfg.Height, cfg.FPS)
		if err != nil {
			logrus.WithError(err).WithField("path", cfg.Path).
				Warn("background video unavailable, using solid color")
			break
		}
		p.clip = c
	}
	return p
}

// Frame returns the background for the given output frame index. The
// returned image is shared between calls and must not be mutated; the
// renderer copies it into its own canvas.
func (p *Provider) Frame(idx int) *image.RGBA {
	switch {
	case p.still != nil:
		return p.still
	case p.clip != nil:
		img, err := p.clip.frameAt(idx)
		if err != nil {
			logrus.WithError(err).Warn("background video decode failed, using solid color")
			p.clip.close()
			p.clip = nil
			return p.solid
		}
		return p.postProcess(img)
	default:
		return p.solid
	}
}

// Close releases any video decoding resources.
func (p *Provider) Close() {
	if p.clip != nil {
		p.clip.close()
		p.clip = nil
	}
}

// loadStill decodes and prepares a still image background. All
// post-processing happens once here since the result is reused for
// every frame.
func loadStill(cfg Config) (*image.RGBA, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding background image: %w", err)
	}

	fitted := effects.Fit(img, cfg.Width, cfg.Height, cfg.Fit)
	return applyFilters(fitted, cfg), nil
}

// postProcess applies the configured filters to a video frame.
func (p *Provider) postProcess(img *image.RGBA) *image.RGBA {
	if p.cfg.Blur <= 0 && p.cfg.Vignette <= 0 && !p.cfg.Grayscale {
		return img
	}
	return applyFilters(img, p.cfg)
}

func applyFilters(img *image.RGBA, cfg Config) *image.RGBA {
	out := img
	if cfg.Grayscale {
		out = effects.Grayscale(out)
	}
	if cfg.Blur > 0 {
		out = effects.Blur(out, cfg.Blur)
	}
	if cfg.Vignette > 0 {
		out = effects.Vignette(out, cfg.Vignette)
	}
	return out
}
