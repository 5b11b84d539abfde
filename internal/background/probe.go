package background

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probe holds video stream metadata from ffprobe.
type probe struct {
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
	HasVideo bool
}

type ffprobeVideoResult struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"` // e.g. "30/1" or "24000/1001"
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeVideo uses ffprobe to get video stream metadata. Returns
// HasVideo=false when no video stream exists.
func probeVideo(path string) (probe, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return probe{}, fmt.Errorf("ffprobe not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-select_streams", "v:0",
		path,
	)
	cmd.Stdin = nil

	output, err := cmd.Output()
	if err != nil {
		return probe{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result ffprobeVideoResult
	if err := json.Unmarshal(output, &result); err != nil {
		return probe{}, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	durSec, _ := strconv.ParseFloat(result.Format.Duration, 64)
	dur := time.Duration(durSec * float64(time.Second))

	for _, s := range result.Streams {
		if s.CodecType != "video" {
			continue
		}
		fps := parseFraction(s.AvgFrameRate)
		if fps <= 0 {
			fps = parseFraction(s.RFrameRate)
		}
		if fps <= 0 {
			fps = 24
		}
		return probe{
			Width:    s.Width,
			Height:   s.Height,
			FPS:      fps,
			Duration: dur,
			HasVideo: true,
		}, nil
	}

	return probe{Duration: dur, HasVideo: false}, nil
}

// parseFraction parses "num/den" into a float64.
func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
