package effects

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
)

// FitMode controls how a background asset is mapped onto the canvas.
type FitMode uint8

const (
	FitStretch FitMode = iota
	FitTile
	FitCenter
)

// FitModeFromString parses a fit mode name, defaulting to stretch.
func FitModeFromString(s string) FitMode {
	switch s {
	case "tile":
		return FitTile
	case "center":
		return FitCenter
	default:
		return FitStretch
	}
}

// Fit maps an image onto a wxh canvas under the given mode. Stretch
// resizes ignoring aspect; tile repeats the source; center scales to
// fit and letterboxes with black.
func Fit(img image.Image, w, h int, mode FitMode) *image.RGBA {
	switch mode {
	case FitTile:
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		sw := img.Bounds().Dx()
		sh := img.Bounds().Dy()
		if sw <= 0 || sh <= 0 {
			return out
		}
		for y := 0; y < h; y += sh {
			for x := 0; x < w; x += sw {
				draw.Draw(out, image.Rect(x, y, x+sw, y+sh), img, img.Bounds().Min, draw.Src)
			}
		}
		return out

	case FitCenter:
		sw := float64(img.Bounds().Dx())
		sh := float64(img.Bounds().Dy())
		scale := math.Min(float64(w)/sw, float64(h)/sh)
		nw := int(sw * scale)
		nh := int(sh * scale)
		scaled := resize.Resize(uint(nw), uint(nh), img, resize.Lanczos3)

		out := image.NewRGBA(image.Rect(0, 0, w, h))
		off := image.Pt((w-nw)/2, (h-nh)/2)
		draw.Draw(out, scaled.Bounds().Add(off), scaled, scaled.Bounds().Min, draw.Src)
		return out

	default:
		return toRGBA(resize.Resize(uint(w), uint(h), img, resize.Lanczos3))
	}
}

// Blur applies a separable box blur. Intensity runs 0-100 and maps to
// the blur radius; 0 returns a copy.
func Blur(img *image.RGBA, intensity float64) *image.RGBA {
	radius := int(intensity / 5)
	if radius <= 0 {
		return cloneRGBA(img)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	tmp := image.NewRGBA(img.Bounds())
	out := image.NewRGBA(img.Bounds())

	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, n int
			for dx := -radius; dx <= radius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				i := y*img.Stride + sx*4
				r += int(img.Pix[i])
				g += int(img.Pix[i+1])
				b += int(img.Pix[i+2])
				n++
			}
			i := y*tmp.Stride + x*4
			tmp.Pix[i] = uint8(r / n)
			tmp.Pix[i+1] = uint8(g / n)
			tmp.Pix[i+2] = uint8(b / n)
			tmp.Pix[i+3] = 255
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, n int
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				i := sy*tmp.Stride + x*4
				r += int(tmp.Pix[i])
				g += int(tmp.Pix[i+1])
				b += int(tmp.Pix[i+2])
				n++
			}
			i := y*out.Stride + x*4
			out.Pix[i] = uint8(r / n)
			out.Pix[i+1] = uint8(g / n)
			out.Pix[i+2] = uint8(b / n)
			out.Pix[i+3] = 255
		}
	}
	return out
}

// Vignette darkens pixels by their distance from the image center.
// Intensity runs 0-100; 0 returns a copy.
func Vignette(img *image.RGBA, intensity float64) *image.RGBA {
	if intensity <= 0 {
		return cloneRGBA(img)
	}

	out := cloneRGBA(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	cx := float64(w) / 2
	cy := float64(h) / 2
	maxDist := math.Hypot(cx, cy)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			mask := 1 - dist/maxDist*intensity/100
			if mask < 0 {
				mask = 0
			}
			i := y*out.Stride + x*4
			out.Pix[i] = uint8(float64(out.Pix[i]) * mask)
			out.Pix[i+1] = uint8(float64(out.Pix[i+1]) * mask)
			out.Pix[i+2] = uint8(float64(out.Pix[i+2]) * mask)
		}
	}
	return out
}

// Grayscale converts the image to BT.601 luminance, kept in RGB form.
func Grayscale(img *image.RGBA) *image.RGBA {
	out := cloneRGBA(img)
	for i := 0; i < len(out.Pix); i += 4 {
		lum := uint8((299*int(out.Pix[i]) + 587*int(out.Pix[i+1]) + 114*int(out.Pix[i+2])) / 1000)
		out.Pix[i] = lum
		out.Pix[i+1] = lum
		out.Pix[i+2] = lum
	}
	return out
}

// SolidImage returns a uniform wxh canvas of the given color.
func SolidImage(w, h int, c color.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return out
}
