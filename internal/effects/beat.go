// Package effects applies beat-synchronized transforms and static
// image adjustments to rendered frames. All transforms are stateless:
// they take an image and return a new one, never mutating the input.
package effects

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// Effect selects the beat-synchronized transform. Exactly one is
// active per generation run.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectPulse
	EffectFlash
	EffectStrobe
	EffectZoom
)

// EffectFromString parses an effect name, defaulting to none.
func EffectFromString(s string) Effect {
	switch s {
	case "pulse":
		return EffectPulse
	case "flash":
		return EffectFlash
	case "strobe":
		return EffectStrobe
	case "zoom":
		return EffectZoom
	default:
		return EffectNone
	}
}

const (
	// minStrength is the floor below which beat transforms are no-ops.
	minStrength = 0.01

	// StrobeThreshold is the default beat strength required for a
	// strobe to fire.
	StrobeThreshold = 0.5

	// strobeMaxOpacity caps the strobe overlay opacity.
	strobeMaxOpacity = 0.8
)

// Pulse upscales the image by a factor interpolated between 1.0 and
// scaleFactor by beat strength, then center-crops back to the original
// size.
func Pulse(img *image.RGBA, strength, scaleFactor float64) *image.RGBA {
	if strength < minStrength {
		return cloneRGBA(img)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	scale := 1 + (scaleFactor-1)*strength
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)

	scaled := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return centerCrop(scaled, w, h)
}

// Flash alpha-blends a solid color overlay with opacity
// strength x maxIntensity.
func Flash(img *image.RGBA, strength float64, overlay color.RGBA, maxIntensity float64) *image.RGBA {
	if strength < minStrength {
		return cloneRGBA(img)
	}
	return blendSolid(img, overlay, strength*maxIntensity)
}

// Strobe blends a solid overlay only when strength reaches the
// threshold, at opacity min(0.8, strength).
func Strobe(img *image.RGBA, strength float64, overlay color.RGBA, threshold float64) *image.RGBA {
	if strength < threshold {
		return cloneRGBA(img)
	}
	opacity := strength
	if opacity > strobeMaxOpacity {
		opacity = strobeMaxOpacity
	}
	return blendSolid(img, overlay, opacity)
}

// Zoom center-crops by a factor derived from beat strength and zoom
// amount, then upscales the crop back to full size.
func Zoom(img *image.RGBA, strength, zoomAmount float64) *image.RGBA {
	if strength < minStrength {
		return cloneRGBA(img)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	zoom := 1 + zoomAmount*strength
	cropW := int(float64(w) / zoom)
	cropH := int(float64(h) / zoom)
	if cropW < 1 || cropH < 1 {
		return cloneRGBA(img)
	}

	cropped := centerCrop(img, cropW, cropH)
	zoomed := resize.Resize(uint(w), uint(h), cropped, resize.Lanczos3)
	return toRGBA(zoomed)
}

// blendSolid blends a solid color over the image at the given opacity.
func blendSolid(img *image.RGBA, c color.RGBA, opacity float64) *image.RGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	out := cloneRGBA(img)
	pix := out.Pix
	or := float64(c.R) * opacity
	og := float64(c.G) * opacity
	ob := float64(c.B) * opacity
	keep := 1 - opacity

	for i := 0; i < len(pix); i += 4 {
		pix[i] = uint8(float64(pix[i])*keep + or)
		pix[i+1] = uint8(float64(pix[i+1])*keep + og)
		pix[i+2] = uint8(float64(pix[i+2])*keep + ob)
	}
	return out
}

// centerCrop extracts a wxh region from the center of the image.
func centerCrop(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	left := b.Min.X + (b.Dx()-w)/2
	top := b.Min.Y + (b.Dy()-h)/2

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, image.Pt(left, top), draw.Src)
	return out
}

// cloneRGBA returns a pixel-identical copy.
func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

// toRGBA converts any image to RGBA, avoiding a copy when it already
// is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
