package audio

import "errors"

// Error kinds surfaced by the audio layer. Analysis packages compare
// against these with errors.Is.
var (
	// ErrInvalidAudio means a track has no samples to analyze.
	ErrInvalidAudio = errors.New("audio: no samples loaded")

	// ErrUnsupportedFormat means the file could not be decoded by any
	// available decoder.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
)

// Track holds a fully decoded mono audio clip. It is immutable after
// construction: analysis stages share the sample slice read-only for the
// lifetime of a generation run.
type Track struct {
	samples    []float32
	sampleRate int
}

// NewTrack wraps decoded mono samples. Returns ErrInvalidAudio for an
// empty buffer or a non-positive sample rate.
func NewTrack(samples []float32, sampleRate int) (*Track, error) {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil, ErrInvalidAudio
	}
	return &Track{samples: samples, sampleRate: sampleRate}, nil
}

// Samples returns the mono sample buffer. Callers must not modify it.
func (t *Track) Samples() []float32 { return t.samples }

// SampleRate returns the sample rate in Hz.
func (t *Track) SampleRate() int { return t.sampleRate }

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.samples) }

// Duration returns the clip length in seconds.
func (t *Track) Duration() float64 {
	return float64(len(t.samples)) / float64(t.sampleRate)
}
