package imp

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// A LUT maps every 8-bit input level to an output level.
type LUT [256]uint8

// BuildLUT computes the linear stretch that sends lo to 0 and hi to 255,
// clamping whatever falls outside.
func BuildLUT(lo, hi uint8) (LUT, error) {
	var lut LUT
	if hi <= lo {
		return lut, fmt.Errorf("%w: min=%d, max=%d", ErrDegenerateRange, lo, hi)
	}

	multiplier := 255 / float64(hi-lo)
	for i := range lut {
		v := math.Round((float64(i) - float64(lo)) * multiplier)
		switch {
		case v < 0:
			lut[i] = 0
		case v > 255:
			lut[i] = 255
		default:
			lut[i] = uint8(v)
		}
	}
	return lut, nil
}

// ApplyLUT remaps the red, green and blue channels of img through lut. The
// result is a new image; img is left untouched.
func ApplyLUT(img image.Image, lut LUT) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}
