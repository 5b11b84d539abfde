package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// ffprobeResult holds parsed ffprobe JSON output.
type ffprobeResult struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeSampleRate uses ffprobe to find the source sample rate of the
// first audio stream.
func probeSampleRate(path string) (int, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return 0, fmt.Errorf("ffprobe not found (required for container formats)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-select_streams", "a:0",
		path,
	)
	cmd.Stdin = nil

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result ffprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	if len(result.Streams) == 0 {
		return 0, fmt.Errorf("no audio stream found")
	}

	sr, err := strconv.Atoi(result.Streams[0].SampleRate)
	if err != nil || sr <= 0 {
		sr = 44100
	}
	return sr, nil
}

// decodeFFmpeg extracts mono float32 PCM from any ffmpeg-supported
// container. Used for formats without a native decoder (AAC, M4A,
// video containers).
func decodeFFmpeg(path string) ([]float32, int, error) {
	rate, err := probeSampleRate(path)
	if err != nil {
		return nil, 0, err
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, 0, fmt.Errorf("ffmpeg not found (required for container formats)")
	}

	logrus.WithFields(logrus.Fields{"path": path, "rate": rate}).
		Debug("decoding via ffmpeg fallback")

	cmd := exec.Command(ffmpeg,
		"-v", "quiet",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
		"-f", "f32le",
		"-c:a", "pcm_f32le",
		"pipe:1",
	)
	cmd.Stdin = nil

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	raw := out.Bytes()
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples, rate, nil
}
