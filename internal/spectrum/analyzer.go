// Package spectrum converts a decoded track into per-video-frame
// frequency data: a windowed FFT magnitude spectrum per frame, and a
// log-spaced, max-normalized band reduction of it for the renderers.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/specviz/internal/audio"
)

// DefaultFFTSize is the transform size when none is configured.
const DefaultFFTSize = 2048

// ErrFFTSetup means the transform could not be initialized.
var ErrFFTSetup = errors.New("spectrum: fft setup failed")

// Analyzer computes and caches per-frame spectra and frequency bands
// for one track at a fixed output frame rate. Compute fans the
// per-frame FFT work out over a worker pool; every frame's window is
// independent, so order does not matter until results are stored by
// index.
type Analyzer struct {
	track   *audio.Track
	fps     int
	fftSize int

	spectra  [][]float64
	bands    [][]float64
	numBands int
}

// NewAnalyzer creates an analyzer for the given track and output frame
// rate. fftSize <= 0 selects DefaultFFTSize.
func NewAnalyzer(track *audio.Track, fps, fftSize int) *Analyzer {
	if fftSize <= 0 {
		fftSize = DefaultFFTSize
	}
	return &Analyzer{track: track, fps: fps, fftSize: fftSize}
}

// TotalFrames returns floor(duration x fps).
func (a *Analyzer) TotalFrames() int {
	return int(a.track.Duration() * float64(a.fps))
}

// Compute eagerly fills the spectrum cache, one magnitude vector of
// length fftSize/2 per output frame. Safe to call once per Analyzer;
// repeated calls are no-ops.
func (a *Analyzer) Compute() error {
	if a.spectra != nil {
		return nil
	}
	if a.track.Len() == 0 {
		return audio.ErrInvalidAudio
	}
	if a.fps <= 0 {
		return fmt.Errorf("%w: frame rate %d", ErrFFTSetup, a.fps)
	}
	if a.fftSize <= 0 || a.fftSize&(a.fftSize-1) != 0 {
		return fmt.Errorf("%w: size %d is not a power of two", ErrFFTSetup, a.fftSize)
	}

	total := a.TotalFrames()
	spectra := make([][]float64, total)

	window := hannWindow(a.fftSize)
	samplesPerFrame := a.track.SampleRate() / a.fps

	workers := runtime.GOMAXPROCS(0)
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	frames := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]float64, a.fftSize)
			for f := range frames {
				spectra[f] = a.frameSpectrum(f*samplesPerFrame, window, buf)
			}
		}()
	}
	for f := 0; f < total; f++ {
		frames <- f
	}
	close(frames)
	wg.Wait()

	a.spectra = spectra

	logrus.WithFields(logrus.Fields{
		"frames":  total,
		"fftSize": a.fftSize,
		"workers": workers,
	}).Info("computed spectrum")

	return nil
}

// frameSpectrum runs one windowed FFT starting at the given sample
// offset, zero-padding past the end of the track, and returns the
// magnitudes of the first fftSize/2 bins.
func (a *Analyzer) frameSpectrum(start int, window, buf []float64) []float64 {
	samples := a.track.Samples()
	for i := 0; i < a.fftSize; i++ {
		if start+i < len(samples) {
			buf[i] = float64(samples[start+i]) * window[i]
		} else {
			buf[i] = 0
		}
	}

	out := fft.FFTReal(buf)
	mags := make([]float64, a.fftSize/2)
	for i := range mags {
		mags[i] = cmplx.Abs(out[i])
	}
	return mags
}

// ComputeBands reduces every cached spectrum to numBands log-spaced
// bands, each frame normalized to its own maximum. Runs Compute first
// if needed.
func (a *Analyzer) ComputeBands(numBands int) error {
	if a.bands != nil && a.numBands == numBands {
		return nil
	}
	if err := a.Compute(); err != nil {
		return err
	}
	if numBands <= 0 {
		return fmt.Errorf("%w: band count %d", ErrFFTSetup, numBands)
	}

	spectrumSize := a.fftSize / 2

	// Band b covers spectrum bins [edge[b], edge[b+1]). Edges are a
	// linear split of log10(1)..log10(spectrumSize), exponentiated.
	edges := make([]int, numBands+1)
	logStep := math.Log10(float64(spectrumSize)) / float64(numBands)
	for i := range edges {
		edges[i] = int(math.Pow(10, float64(i)*logStep))
	}

	bands := make([][]float64, len(a.spectra))
	for f, spec := range a.spectra {
		frame := make([]float64, numBands)
		for b := 0; b < numBands; b++ {
			sum, count := 0.0, 0
			for i := edges[b]; i < edges[b+1] && i < spectrumSize; i++ {
				sum += spec[i]
				count++
			}
			if count > 0 {
				frame[b] = sum / float64(count)
			}
		}

		// Normalize against the frame's own loudest band. A fully
		// silent frame stays all-zero.
		maxVal := 0.0
		for _, v := range frame {
			if v > maxVal {
				maxVal = v
			}
		}
		if maxVal > 0 {
			for i := range frame {
				frame[i] /= maxVal
			}
		}
		bands[f] = frame
	}

	a.bands = bands
	a.numBands = numBands
	return nil
}

// Spectrum returns the cached magnitude spectrum for a frame, or nil
// when the frame is out of range or Compute has not run.
func (a *Analyzer) Spectrum(frame int) []float64 {
	if frame < 0 || frame >= len(a.spectra) {
		return nil
	}
	return a.spectra[frame]
}

// Bands returns the cached normalized band vector for a frame, or nil
// when out of range.
func (a *Analyzer) Bands(frame int) []float64 {
	if frame < 0 || frame >= len(a.bands) {
		return nil
	}
	return a.bands[frame]
}

// Intensity computes RMS energy over windowFrames output frames of raw
// samples starting at the given frame, scaled by 10 and clamped to
// [0,1]. Out-of-range frames yield 0. Used by strobe-style effects
// that want broadband loudness rather than spectral shape.
func (a *Analyzer) Intensity(frame, windowFrames int) float64 {
	samples := a.track.Samples()
	if frame < 0 || a.fps <= 0 {
		return 0
	}

	samplesPerFrame := a.track.SampleRate() / a.fps
	start := frame * samplesPerFrame
	if start >= len(samples) {
		return 0
	}
	end := start + samplesPerFrame*windowFrames
	if end > len(samples) {
		end = len(samples)
	}

	sum := 0.0
	for _, s := range samples[start:end] {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(end-start))

	return math.Min(rms*10, 1)
}

// hannWindow returns the Hann window of the given size.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
