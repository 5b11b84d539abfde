package generate

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FrameSink receives rendered frames in order. Dir reports where the
// frames land so the encoder can pick them up.
type FrameSink interface {
	WriteFrame(index int, img *image.RGBA) error
	Dir() string
}

// DirSink writes frames as numbered PNG files into a temporary
// directory, named so ffmpeg's image2 demuxer picks them up directly.
type DirSink struct {
	dir string
}

// NewDirSink creates the frame directory.
func NewDirSink() (*DirSink, error) {
	dir, err := os.MkdirTemp("", "specviz-frames-")
	if err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the directory frames are written to.
func (s *DirSink) Dir() string { return s.dir }

// WriteFrame encodes one frame as frame_NNNNNN.png.
func (s *DirSink) WriteFrame(index int, img *image.RGBA) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing frame %d: %w", index, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame %d: %w", index, err)
	}
	return f.Close()
}

// Cleanup removes the frame directory and everything in it.
func (s *DirSink) Cleanup() error {
	return os.RemoveAll(s.dir)
}
