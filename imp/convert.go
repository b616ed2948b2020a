package imp

import (
	"image"

	"github.com/disintegration/imaging"
)

// Channel offsets within an NRGBA pixel.
const (
	Red   = 0
	Green = 1
	Blue  = 2
)

// ToNRGBA converts any image to NRGBA, avoiding a copy when possible.
func ToNRGBA(src image.Image) *image.NRGBA {
	if dst, ok := src.(*image.NRGBA); ok {
		return dst
	}
	return imaging.Clone(src)
}

// Channel extracts a single channel of src as a grayscale picture anchored
// at the origin.
func Channel(src *image.NRGBA, c int) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y) + c
		row := dst.Pix[y*dst.Stride : y*dst.Stride+bounds.Dx()]
		for x := range row {
			row[x] = src.Pix[i]
			i += 4
		}
	}
	return dst
}
