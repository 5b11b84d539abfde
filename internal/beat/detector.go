// Package beat locates beats in a track by peak-picking an
// energy-based onset strength signal, and answers per-frame queries
// about beat proximity and decaying beat strength.
package beat

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/olivier-w/specviz/internal/audio"
)

const (
	// DefaultHopLength is the sample stride between onset analysis frames.
	DefaultHopLength = 512

	// analysisWindow is the fixed onset analysis window in samples.
	analysisWindow = 2048

	// peakThreshold is the minimum normalized onset value for a beat
	// candidate.
	peakThreshold = 0.3

	// minBeatGap is the minimum spacing between accepted beats in seconds.
	minBeatGap = 0.2

	// defaultTempo is reported when fewer than two beats are found.
	defaultTempo = 120.0
)

// Info holds the outcome of beat detection. Immutable once returned.
type Info struct {
	// Times are beat timestamps in seconds, strictly increasing and at
	// least minBeatGap apart.
	Times []float64

	// Tempo is the estimated BPM, clamped to [60,200].
	Tempo float64

	// Count is len(Times).
	Count int
}

// Detector runs onset analysis over one track.
type Detector struct {
	track *audio.Track
	hop   int
}

// NewDetector creates a detector. hop <= 0 selects DefaultHopLength.
func NewDetector(track *audio.Track, hop int) *Detector {
	if hop <= 0 {
		hop = DefaultHopLength
	}
	return &Detector{track: track, hop: hop}
}

// Detect computes the onset strength signal, picks beats from it and
// estimates tempo.
func (d *Detector) Detect() (Info, error) {
	if d.track.Len() == 0 {
		return Info{}, audio.ErrInvalidAudio
	}

	onsets := d.onsetStrength()
	times := beatTimes(peakIndices(onsets, peakThreshold), d.hop, d.track.SampleRate())

	info := Info{
		Times: times,
		Tempo: estimateTempo(times),
		Count: len(times),
	}

	logrus.WithFields(logrus.Fields{
		"beats": info.Count,
		"tempo": info.Tempo,
	}).Info("detected beats")

	return info, nil
}

// onsetStrength computes one value per hop-aligned analysis frame: the
// square root of the frame's total energy plus twice the square root
// of its second-half energy (a cheap high-frequency proxy), then
// normalizes the sequence by its own maximum.
func (d *Detector) onsetStrength() []float64 {
	samples := d.track.Samples()

	numFrames := (len(samples)-analysisWindow)/d.hop + 1
	if numFrames < 0 {
		numFrames = 0
	}

	onsets := make([]float64, 0, numFrames)
	for frame := 0; frame < numFrames; frame++ {
		start := frame * d.hop

		var energy, hfEnergy float64
		for i := 0; i < analysisWindow && start+i < len(samples); i++ {
			s := float64(samples[start+i])
			energy += s * s
			if i >= analysisWindow/2 {
				hfEnergy += s * s
			}
		}

		onsets = append(onsets, math.Sqrt(energy)+2*math.Sqrt(hfEnergy))
	}

	maxOnset := 0.0
	for _, v := range onsets {
		if v > maxOnset {
			maxOnset = v
		}
	}
	if maxOnset > 0 {
		for i := range onsets {
			onsets[i] /= maxOnset
		}
	}
	return onsets
}

// peakIndices returns the indices of local maxima above the threshold.
// Boundary samples are excluded: a peak must strictly exceed both
// neighbors.
func peakIndices(onsets []float64, threshold float64) []int {
	if len(onsets) < 3 {
		return nil
	}
	var peaks []int
	for i := 1; i < len(onsets)-1; i++ {
		if onsets[i] > threshold && onsets[i] > onsets[i-1] && onsets[i] > onsets[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// beatTimes converts peak indices to timestamps and drops candidates
// closer than minBeatGap to the previously accepted beat, scanning
// left to right.
func beatTimes(peaks []int, hop, sampleRate int) []float64 {
	var times []float64
	for _, idx := range peaks {
		t := float64(idx) * float64(hop) / float64(sampleRate)
		if len(times) > 0 && t-times[len(times)-1] < minBeatGap {
			continue
		}
		times = append(times, t)
	}
	return times
}

// estimateTempo derives BPM from the median inter-beat interval,
// clamped to [60,200]. Fewer than two beats yields the default tempo.
func estimateTempo(times []float64) float64 {
	if len(times) < 2 {
		return defaultTempo
	}

	intervals := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals[i-1] = times[i] - times[i-1]
	}
	sort.Float64s(intervals)

	bpm := 60.0 / intervals[len(intervals)/2]
	return math.Min(math.Max(bpm, 60), 200)
}

// IsBeatFrame reports whether any beat lies within tolerance seconds
// of the frame's timestamp.
func (bi Info) IsBeatFrame(frame, fps int, tolerance float64) bool {
	frameTime := float64(frame) / float64(fps)
	for _, t := range bi.Times {
		if math.Abs(frameTime-t) <= tolerance {
			return true
		}
	}
	return false
}

// Strength returns the decaying beat strength at the given frame: 1.0
// exactly on a beat, exp(-dt x (1-decayRate) x 10) after it, 0 before
// the first beat.
func (bi Info) Strength(frame, fps int, decayRate float64) float64 {
	frameTime := float64(frame) / float64(fps)

	lastBeat := -1.0
	for _, t := range bi.Times {
		if t > frameTime {
			break
		}
		lastBeat = t
	}
	if lastBeat < 0 {
		return 0
	}

	strength := math.Exp(-(frameTime - lastBeat) * (1 - decayRate) * 10)
	return math.Min(math.Max(strength, 0), 1)
}
