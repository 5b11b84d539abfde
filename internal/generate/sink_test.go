package generate

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSinkWritesNumberedFrames(t *testing.T) {
	sink, err := NewDirSink()
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}
	defer sink.Cleanup()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for _, idx := range []int{0, 1, 42} {
		if err := sink.WriteFrame(idx, img); err != nil {
			t.Fatalf("WriteFrame(%d) error = %v", idx, err)
		}
	}

	for _, name := range []string{"frame_000000.png", "frame_000001.png", "frame_000042.png"} {
		path := filepath.Join(sink.Dir(), name)
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("frame file %s missing: %v", name, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", name, err)
		}
		if cfg.Width != 8 || cfg.Height != 8 {
			t.Fatalf("%s is %dx%d, want 8x8", name, cfg.Width, cfg.Height)
		}
	}
}

func TestDirSinkCleanupRemovesDirectory(t *testing.T) {
	sink, err := NewDirSink()
	if err != nil {
		t.Fatalf("NewDirSink() error = %v", err)
	}
	if err := sink.WriteFrame(0, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if err := sink.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(sink.Dir()); !os.IsNotExist(err) {
		t.Fatalf("Stat() after Cleanup() error = %v, want not-exist", err)
	}
}
