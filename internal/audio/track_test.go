package audio

import (
	"errors"
	"math"
	"testing"
)

func TestNewTrackValidates(t *testing.T) {
	if _, err := NewTrack(nil, 44100); !errors.Is(err, ErrInvalidAudio) {
		t.Fatalf("NewTrack(empty) error = %v, want ErrInvalidAudio", err)
	}
	if _, err := NewTrack(make([]float32, 100), 0); !errors.Is(err, ErrInvalidAudio) {
		t.Fatalf("NewTrack(rate=0) error = %v, want ErrInvalidAudio", err)
	}
}

func TestTrackDuration(t *testing.T) {
	track, err := NewTrack(make([]float32, 44100*2), 44100)
	if err != nil {
		t.Fatalf("NewTrack() error = %v", err)
	}
	if got := track.Duration(); math.Abs(got-2) > 1e-9 {
		t.Fatalf("Duration() = %v, want 2", got)
	}
	if got := track.Len(); got != 88200 {
		t.Fatalf("Len() = %d, want 88200", got)
	}
	if got := track.SampleRate(); got != 44100 {
		t.Fatalf("SampleRate() = %d, want 44100", got)
	}
}

func TestLoadTrackMissingFile(t *testing.T) {
	if _, err := LoadTrack("/nonexistent/song.mp3"); err == nil {
		t.Fatal("LoadTrack() of missing file succeeded, want error")
	}
}

func TestMetadataDisplay(t *testing.T) {
	cases := []struct {
		meta Metadata
		want string
	}{
		{Metadata{Title: "Song", Artist: "Artist"}, "Artist - Song"},
		{Metadata{Title: "Song"}, "Song"},
		{Metadata{}, ""},
	}
	for _, tc := range cases {
		if got := tc.meta.Display(); got != tc.want {
			t.Fatalf("Display(%+v) = %q, want %q", tc.meta, got, tc.want)
		}
	}
}
