package background

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// cacheLimit is the clip duration below which all frames are decoded
// up front instead of streamed.
const cacheLimit = 30 * time.Second

// clip decodes a looping video background at the output frame rate and
// canvas size via an ffmpeg rawvideo pipe. Frames are requested by
// output frame index; the clip loops by taking the index modulo its
// own frame count.
type clip struct {
	path        string
	width       int
	height      int
	fps         int
	totalFrames int

	cached []*image.RGBA

	cmd      *exec.Cmd
	stdout   io.ReadCloser
	cancel   context.CancelFunc
	frameBuf []byte
	frameIdx int // index of the frame currently in frameBuf, -1 before first read
	current  *image.RGBA
}

// openClip probes the video and prepares decoding. Short clips are
// fully cached; longer ones stream and restart at each loop boundary.
func openClip(path string, width, height, fps int) (*clip, error) {
	p, err := probeVideo(path)
	if err != nil {
		return nil, err
	}
	if !p.HasVideo {
		return nil, fmt.Errorf("no video stream in %s", path)
	}
	if p.Duration <= 0 {
		return nil, fmt.Errorf("invalid video duration in %s", path)
	}

	total := int(p.Duration.Seconds() * float64(fps))
	if total < 1 {
		total = 1
	}

	c := &clip{
		path:        path,
		width:       width,
		height:      height,
		fps:         fps,
		totalFrames: total,
		frameBuf:    make([]byte, width*height*3),
		frameIdx:    -1,
	}

	if p.Duration < cacheLimit {
		if err := c.cacheAll(); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"frames": len(c.cached),
		}).Debug("cached background clip")
		return c, nil
	}

	if err := c.startDecode(); err != nil {
		return nil, err
	}
	return c, nil
}

// frameAt returns the background frame for an output frame index,
// looping over the clip. The returned image must not be mutated.
func (c *clip) frameAt(idx int) (*image.RGBA, error) {
	loop := idx % c.totalFrames

	if c.cached != nil {
		if loop >= len(c.cached) {
			loop = len(c.cached) - 1
		}
		return c.cached[loop], nil
	}

	// Streaming. The orchestrator asks for strictly increasing
	// indices, so a smaller target means we wrapped around the loop.
	if loop < c.frameIdx {
		if err := c.startDecode(); err != nil {
			return nil, err
		}
	}
	for c.frameIdx < loop {
		if err := c.readNextFrame(); err != nil {
			// Stream ended early (duration estimate was high); hold
			// the last decoded frame.
			if c.current != nil {
				return c.current, nil
			}
			return nil, err
		}
	}
	return c.current, nil
}

// cacheAll decodes the entire clip into memory.
func (c *clip) cacheAll() error {
	if err := c.startDecode(); err != nil {
		return err
	}
	defer c.stopDecode()

	c.cached = make([]*image.RGBA, 0, c.totalFrames)
	for {
		if err := c.readNextFrame(); err != nil {
			break
		}
		c.cached = append(c.cached, c.current)
		c.current = nil
	}
	if len(c.cached) == 0 {
		c.cached = nil
		return fmt.Errorf("no frames decoded from %s", c.path)
	}
	if len(c.cached) < c.totalFrames {
		c.totalFrames = len(c.cached)
	}
	return nil
}

// startDecode launches the ffmpeg rawvideo subprocess from the start
// of the clip.
func (c *clip) startDecode() error {
	c.stopDecode()

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-v", "quiet",
		"-i", c.path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-vf", fmt.Sprintf("scale=%d:%d,fps=%d", c.width, c.height, c.fps),
		"-an",
		"pipe:1",
	)
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("starting ffmpeg background decode: %w", err)
	}

	c.cmd = cmd
	c.stdout = stdout
	c.cancel = cancel
	c.frameIdx = -1
	return nil
}

// stopDecode kills and cleans up the current ffmpeg process.
func (c *clip) stopDecode() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.cmd != nil {
		c.cmd.Wait()
		c.cmd = nil
	}
	c.stdout = nil
}

// readNextFrame reads one raw rgb24 frame and converts it to RGBA.
func (c *clip) readNextFrame() error {
	if c.stdout == nil {
		return io.EOF
	}
	if _, err := io.ReadFull(c.stdout, c.frameBuf); err != nil {
		return err
	}
	c.frameIdx++

	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for i := 0; i < c.width*c.height; i++ {
		img.Pix[i*4] = c.frameBuf[i*3]
		img.Pix[i*4+1] = c.frameBuf[i*3+1]
		img.Pix[i*4+2] = c.frameBuf[i*3+2]
		img.Pix[i*4+3] = 255
	}
	c.current = img
	return nil
}

// close releases the decode subprocess and cached frames.
func (c *clip) close() {
	c.stopDecode()
	c.cached = nil
	c.current = nil
}
