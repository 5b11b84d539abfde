package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/specviz/internal/audio"
	"github.com/olivier-w/specviz/internal/config"
	"github.com/olivier-w/specviz/internal/encode"
	"github.com/olivier-w/specviz/internal/generate"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a JSON settings file")
		preset     = flag.String("preset", "", "built-in preset (minimal, club, retro, modern, particle_burst)")
		output     = flag.String("o", "output.mp4", "output video path")
		style      = flag.String("style", "", "visualizer style override (bars, filled_waveform, circle, particle)")
		width      = flag.Int("width", 0, "video width override")
		height     = flag.Int("height", 0, "video height override")
		fps        = flag.Int("fps", 0, "frame rate override")
		seed       = flag.Int64("seed", 0, "particle RNG seed (0 = random)")
		plain      = flag.Bool("plain", false, "plain log output instead of the progress UI")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: specviz [flags] <audio file>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	audioPath := flag.Arg(0)

	logrus.SetLevel(logrus.WarnLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	settings, err := loadSettings(*configPath, *preset)
	if err != nil {
		fatal(err)
	}
	if *style != "" {
		settings.Style = *style
	}
	if *width > 0 {
		settings.Width = *width
	}
	if *height > 0 {
		settings.Height = *height
	}
	if *fps > 0 {
		settings.FPS = *fps
	}
	if err := settings.Validate(); err != nil {
		fatal(err)
	}

	track, err := audio.LoadTrack(audioPath)
	if err != nil {
		fatal(err)
	}
	meta := audio.ReadMetadata(audioPath)

	sink, err := generate.NewDirSink()
	if err != nil {
		fatal(err)
	}
	defer sink.Cleanup()

	encoder, err := encode.New()
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := generate.Options{
		Settings: settings,
		Track:    track,
		Sink:     sink,
		Encoder: videoEncoder{
			enc:       encoder,
			settings:  settings,
			audioPath: audioPath,
			output:    *output,
		},
		Seed: *seed,
	}

	useUI := !*plain && isatty.IsTerminal(os.Stdout.Fd())
	if useUI {
		err = runWithUI(ctx, opts, meta.Display(), *output)
	} else {
		err = runPlain(ctx, opts)
	}
	if err != nil {
		fatal(err)
	}
}

func loadSettings(configPath, preset string) (config.Settings, error) {
	switch {
	case configPath != "" && preset != "":
		return config.Settings{}, fmt.Errorf("-config and -preset are mutually exclusive")
	case configPath != "":
		return config.Load(configPath)
	case preset != "":
		return config.Preset(preset)
	default:
		return config.Default(), nil
	}
}

// runPlain drives the generator with logrus progress lines. Used for
// pipes and non-interactive shells.
func runPlain(ctx context.Context, opts generate.Options) error {
	logrus.SetLevel(logrus.InfoLevel)
	opts.Progress = func(p generate.Progress) {
		logrus.WithField("percent", p.Percent).Info(p.Message)
	}
	return generate.New(opts).Run(ctx)
}

// runWithUI drives the generator behind the bubbletea progress model.
func runWithUI(ctx context.Context, opts generate.Options, title, output string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusCh := make(chan generate.Progress, 16)
	opts.Progress = func(p generate.Progress) {
		select {
		case statusCh <- p:
		default:
		}
	}

	gen := generate.New(opts)
	done := make(chan error, 1)
	go func() {
		done <- gen.Run(ctx)
		close(statusCh)
	}()

	model := newGenerateModel(title, output, statusCh, done, cancel)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		cancel()
		<-done
		return err
	}
	if m, ok := final.(generateModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// videoEncoder adapts the ffmpeg encoder to the generator's interface,
// carrying the output and audio paths alongside the encode settings.
type videoEncoder struct {
	enc       *encode.Encoder
	settings  config.Settings
	audioPath string
	output    string
}

func (e videoEncoder) Encode(ctx context.Context, frameDir string) error {
	return e.enc.Encode(ctx, encode.Settings{
		FrameDir:    frameDir,
		AudioPath:   e.audioPath,
		OutputPath:  e.output,
		FPS:         e.settings.FPS,
		Width:       e.settings.Width,
		Height:      e.settings.Height,
		Codec:       e.settings.Encoding.VideoCodec(),
		Preset:      e.settings.Encoding.Preset,
		Bitrate:     e.settings.Encoding.Bitrate,
		PixelFormat: e.settings.Encoding.PixelFormat,
	})
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
