package imp

import (
	"fmt"
	"image"
)

// DefaultMedianRadius is the radius of the denoising filter applied before
// measuring the white point.
const DefaultMedianRadius = 1

// Extrema holds the black and white points measured on an image.
type Extrema struct {
	Min uint8
	Max uint8
}

func (e Extrema) String() string {
	return fmt.Sprintf("min=%d, max=%d", e.Min, e.Max)
}

// FindExtrema measures the black and white points of a preview.
//
// The white point is the brightest median-filtered red or green sample
// selected by mask, or 0 when the mask is empty. The black point is the
// darkest raw sample of the whole preview, background included: it isn't
// restricted to the subject. This asymmetry is kept for compatibility with
// earlier batches, though a subject-restricted black point would be more
// consistent.
func FindExtrema(preview *image.NRGBA, mask *Mask, p Params) Extrema {
	seg := p.segmenter()
	ext := Extrema{Min: minSample(preview)}

	for _, c := range []int{Red, Green} {
		filtered := seg.Median(Channel(preview, c), p.MedianRadius)
		for y := 0; y < filtered.Rect.Dy(); y++ {
			for x := 0; x < filtered.Rect.Dx(); x++ {
				if !mask.At(x, y) {
					continue
				}
				if v := filtered.Pix[y*filtered.Stride+x]; v > ext.Max {
					ext.Max = v
				}
			}
		}
	}
	return ext
}

// minSample returns the darkest red, green or blue sample of img.
func minSample(img *image.NRGBA) uint8 {
	var min uint8 = 255
	rect := img.Bounds()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			for _, v := range img.Pix[i : i+3] {
				if v < min {
					min = v
				}
			}
			i += 4
		}
	}
	return min
}
