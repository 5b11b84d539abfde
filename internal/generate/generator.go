// Package generate orchestrates a full render: spectrum analysis, beat
// detection, per-frame drawing with beat effects, frame output, and
// the final video encode.
package generate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/olivier-w/specviz/internal/audio"
	"github.com/olivier-w/specviz/internal/background"
	"github.com/olivier-w/specviz/internal/beat"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/effects"
	"github.com/olivier-w/specviz/internal/render"
	"github.com/olivier-w/specviz/internal/spectrum"
)

// State tracks where a generation run is.
type State int32

const (
	StateIdle State = iota
	StateAnalyzing
	StateRendering
	StateEncoding
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateRendering:
		return "rendering"
	case StateEncoding:
		return "encoding"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is one progress report. Percent is 0-100; a failed run
// reports 0.
type Progress struct {
	Percent int
	Message string
}

// ProgressFunc receives progress reports during Run. It is called from
// the generating goroutine and must not block for long.
type ProgressFunc func(Progress)

// Encoder turns a directory of numbered frames into the output video.
type Encoder interface {
	Encode(ctx context.Context, frameDir string) error
}

// sinkQueueDepth bounds how many rendered frames can wait for the
// writer goroutine before rendering blocks.
const sinkQueueDepth = 8

// Options configure a generation run.
type Options struct {
	Settings config.Settings
	Track    *audio.Track
	Sink     FrameSink
	Encoder  Encoder
	Progress ProgressFunc
	// Seed fixes the particle RNG; 0 means a random seed.
	Seed int64
}

// Generator runs one audio-to-video generation.
type Generator struct {
	opts  Options
	state atomic.Int32
}

// New prepares a generator. Run does the work.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// State returns the current run state. Safe to call from other
// goroutines while Run is in flight.
func (g *Generator) State() State {
	return State(g.state.Load())
}

func (g *Generator) setState(s State) {
	g.state.Store(int32(s))
}

func (g *Generator) report(pct int, msg string) {
	if g.opts.Progress != nil {
		g.opts.Progress(Progress{Percent: pct, Message: msg})
	}
}

// Run executes the full pipeline. Frames render strictly in order on
// this goroutine; PNG writing happens on a second goroutine behind a
// bounded queue. Cancellation is checked between frames.
func (g *Generator) Run(ctx context.Context) error {
	err := g.run(ctx)
	if err != nil {
		g.setState(StateFailed)
		g.report(0, fmt.Sprintf("failed: %v", err))
		return err
	}
	g.setState(StateComplete)
	g.report(100, "complete")
	return nil
}

func (g *Generator) run(ctx context.Context) error {
	s := g.opts.Settings
	track := g.opts.Track

	g.setState(StateAnalyzing)
	g.report(0, "computing spectrum")

	var beats beat.Info
	if s.BeatEffectsEnabled {
		det := beat.NewDetector(track, beat.DefaultHopLength)
		info, err := det.Detect()
		if err != nil {
			return fmt.Errorf("beat detection: %w", err)
		}
		beats = info
		logrus.WithFields(logrus.Fields{
			"beats": beats.Count,
			"tempo": beats.Tempo,
		}).Info("beat detection complete")
	}

	analyzer := spectrum.NewAnalyzer(track, s.FPS, s.FFTSize)
	if err := analyzer.Compute(); err != nil {
		return fmt.Errorf("spectrum analysis: %w", err)
	}
	if err := analyzer.ComputeBands(s.NumBands); err != nil {
		return fmt.Errorf("band aggregation: %w", err)
	}
	total := analyzer.TotalFrames()
	if total < 1 {
		return audio.ErrInvalidAudio
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	g.setState(StateRendering)
	g.report(5, "generating frames")

	renderer := g.newRenderer()
	provider := background.NewProvider(background.Config{
		Mode:      background.ModeFromString(s.BackgroundType),
		Path:      s.BackgroundPath,
		Color:     rgb(s.BackgroundColor),
		Width:     s.Width,
		Height:    s.Height,
		FPS:       s.FPS,
		Fit:       effects.FitModeFromString(s.BackgroundFit),
		Blur:      s.BackgroundBlur,
		Vignette:  s.Vignette,
		Grayscale: s.BackgroundBW,
	})
	defer provider.Close()

	effect := effects.EffectNone
	if s.BeatEffectsEnabled {
		effect = effects.EffectFromString(s.BeatEffect)
	}

	type queued struct {
		index int
		img   *image.RGBA
	}
	frames := make(chan queued, sinkQueueDepth)
	writeErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for q := range frames {
			if err := g.opts.Sink.WriteFrame(q.index, q.img); err != nil {
				select {
				case writeErr <- err:
				default:
				}
				return
			}
		}
	}()

	renderLoop := func() error {
		for f := 0; f < total; f++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case err := <-writeErr:
				return fmt.Errorf("frame output: %w", err)
			default:
			}

			img := renderer.Render(analyzer.Bands(f), provider.Frame(f))
			if effect != effects.EffectNone {
				strength := beats.Strength(f, s.FPS, s.BeatDecay)
				img = g.applyEffect(effect, img, strength)
			}
			if s.StrobeEnabled {
				img = effects.Strobe(img, analyzer.Intensity(f, 1), rgb(s.StrobeColor), effects.StrobeThreshold)
			}

			// The writer can die mid-run; selecting on its error keeps
			// a full queue from blocking the render loop forever.
			select {
			case frames <- queued{index: f, img: img}:
			case err := <-writeErr:
				return fmt.Errorf("frame output: %w", err)
			}

			if f%10 == 0 {
				pct := 5 + int(85*float64(f)/float64(total))
				if pct > 90 {
					pct = 90
				}
				g.report(pct, fmt.Sprintf("generating frames (%d/%d)", f, total))
			}
		}
		return nil
	}

	loopErr := renderLoop()
	close(frames)
	wg.Wait()
	if loopErr != nil {
		return loopErr
	}
	select {
	case err := <-writeErr:
		return fmt.Errorf("frame output: %w", err)
	default:
	}

	if g.opts.Encoder != nil {
		g.setState(StateEncoding)
		g.report(90, "encoding video")
		if err := g.opts.Encoder.Encode(ctx, g.opts.Sink.Dir()); err != nil {
			return err
		}
	}
	return nil
}

// newRenderer builds the color mapper and renderer from the settings.
func (g *Generator) newRenderer() *render.Renderer {
	s := g.opts.Settings

	mapper := render.NewColorMapper(render.GradientFromString(s.Gradient))
	mapper.SetCustomColors(rgb(s.CustomColorStart), rgb(s.CustomColorEnd))
	mapper.SetMonochromeColor(rgb(s.MonochromeColor))

	seed := g.opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return render.New(render.StyleFromString(s.Style), mapper, render.Options{
		Width:     s.Width,
		Height:    s.Height,
		Scale:     s.Scale,
		Smoothing: s.Smoothing,
		Rand:      rand.New(rand.NewSource(seed)),
	})
}

// applyEffect runs the configured beat transform on a composed frame.
func (g *Generator) applyEffect(effect effects.Effect, img *image.RGBA, strength float64) *image.RGBA {
	s := g.opts.Settings
	white := color.RGBA{255, 255, 255, 255}
	switch effect {
	case effects.EffectPulse:
		return effects.Pulse(img, strength, 1+s.BeatIntensity)
	case effects.EffectFlash:
		return effects.Flash(img, strength, white, s.BeatIntensity)
	case effects.EffectStrobe:
		return effects.Strobe(img, strength, white, effects.StrobeThreshold)
	case effects.EffectZoom:
		return effects.Zoom(img, strength, s.BeatIntensity)
	default:
		return img
	}
}

func rgb(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}
