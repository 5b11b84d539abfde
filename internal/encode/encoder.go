// Package encode assembles rendered PNG frames into a video file by
// invoking ffmpeg, muxing in the source audio when provided.
package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ErrEncodingFailed indicates ffmpeg exited with an error.
var ErrEncodingFailed = errors.New("video encoding failed")

// Settings describe one encode run.
type Settings struct {
	FrameDir    string // directory holding frame_%06d.png
	AudioPath   string // optional; muxed as AAC when set
	OutputPath  string
	FPS         int
	Width       int
	Height      int
	Codec       string
	Preset      string
	Bitrate     int
	PixelFormat string
}

// Encoder runs ffmpeg to produce the final video.
type Encoder struct {
	ffmpegPath string
}

// New locates ffmpeg on PATH.
func New() (*Encoder, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found, required for video encoding")
	}
	return &Encoder{ffmpegPath: path}, nil
}

// Encode runs the encode and blocks until ffmpeg finishes.
func (e *Encoder) Encode(ctx context.Context, s Settings) error {
	args := buildArgs(s)

	logrus.WithFields(logrus.Fields{
		"output": s.OutputPath,
		"codec":  s.Codec,
	}).Info("encoding video")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := lastLine(stderr.Bytes())
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrEncodingFailed, msg)
		}
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return nil
}

// buildArgs constructs the ffmpeg argument list for an encode.
func buildArgs(s Settings) []string {
	args := []string{
		"-y",
		"-framerate", strconv.Itoa(s.FPS),
		"-start_number", "0",
		"-i", filepath.Join(s.FrameDir, "frame_%06d.png"),
	}
	if s.AudioPath != "" {
		args = append(args, "-i", s.AudioPath)
	}
	args = append(args,
		"-c:v", s.Codec,
		"-preset", s.Preset,
		"-b:v", strconv.Itoa(s.Bitrate),
		"-pix_fmt", s.PixelFormat,
		"-s", fmt.Sprintf("%dx%d", s.Width, s.Height),
	)
	if s.AudioPath != "" {
		args = append(args,
			"-c:a", "aac",
			"-b:a", "192k",
			"-shortest",
		)
	}
	return append(args, s.OutputPath)
}

// lastLine returns the final non-empty line of ffmpeg's stderr, which
// usually carries the actual error.
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if l := bytes.TrimSpace(lines[i]); len(l) > 0 {
			return string(l)
		}
	}
	return ""
}
