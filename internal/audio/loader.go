package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/sirupsen/logrus"
)

// LoadTrack decodes an audio file into a mono Track. MP3, WAV, FLAC and
// OGG are decoded natively; anything else goes through the ffmpeg
// fallback. Stereo sources are averaged to mono per sample frame.
func LoadTrack(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var (
		samples []float32
		rate    int
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		samples, rate, err = decodeMP3(f)
	case ".wav":
		samples, rate, err = decodeWAV(f)
	case ".flac":
		samples, rate, err = decodeFLAC(f)
	case ".ogg":
		samples, rate, err = decodeOGG(f)
	default:
		samples, rate, err = decodeFFmpeg(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupportedFormat, path, err)
	}

	track, err := NewTrack(samples, rate)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"duration": track.Duration(),
		"rate":     rate,
	}).Info("loaded audio")

	return track, nil
}

// decodeMP3 reads the full MP3 stream. go-mp3 always emits 16-bit LE
// stereo at the stream's sample rate.
func decodeMP3(f *os.File) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, err
	}

	// 2 channels x 2 bytes per sample frame.
	frames := len(raw) / 4
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		samples[i] = (float32(l) + float32(r)) / 2 / 32768
	}
	return samples, dec.SampleRate(), nil
}

func decodeWAV(f *os.File) ([]float32, int, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	scale := float32(int(1) << (dec.BitDepth - 1))
	if dec.BitDepth == 8 {
		// 8-bit WAV is unsigned; FullPCMBuffer already recenters it.
		scale = 128
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += float32(buf.Data[i*channels+ch])
		}
		samples[i] = sum / float32(channels) / scale
	}
	return samples, buf.Format.SampleRate, nil
}

func decodeFLAC(f *os.File) ([]float32, int, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	scale := float32(int(1) << (info.BitsPerSample - 1))

	samples := make([]float32, 0, info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			var sum float32
			for ch := 0; ch < channels; ch++ {
				sum += float32(frame.Subframes[ch].Samples[i])
			}
			samples = append(samples, sum/float32(channels)/scale)
		}
	}
	return samples, int(info.SampleRate), nil
}

func decodeOGG(f *os.File) ([]float32, int, error) {
	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := format.Channels
	if channels <= 1 {
		return data, format.SampleRate, nil
	}

	frames := len(data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += data[i*channels+ch]
		}
		samples[i] = sum / float32(channels)
	}
	return samples, format.SampleRate, nil
}
