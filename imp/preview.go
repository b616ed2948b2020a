package imp

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultPreviewSize is the length of the longer side of analysis previews.
const DefaultPreviewSize = 400

var filters = map[string]imaging.ResampleFilter{
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"mitchell":   imaging.MitchellNetravali,
	"lanczos":    imaging.Lanczos,
}

// FilterByName returns the resampling filter registered under name.
// Nearest-neighbor is deliberately absent: it aliases edges.
func FilterByName(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(filters))
		for n := range filters {
			names = append(names, n)
		}
		sort.Strings(names)
		return f, fmt.Errorf("unknown resampling filter %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return f, nil
}

// PreviewSize computes the dimensions of the preview of a w*h image whose
// longer side is size. The shorter side is size*short/long in integer
// arithmetic, which keeps the aspect ratio but may be one pixel off a
// floating point size/(long/short).
func PreviewSize(w, h, size int) (int, int) {
	if w >= h {
		return size, size * h / w
	}
	return size * w / h, size
}

// Downsample produces a bounded-resolution preview of img, preserving its
// aspect ratio.
func Downsample(img image.Image, size int, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= 0 || h <= 0 || size <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, w, h)
	}

	pw, ph := PreviewSize(w, h, size)
	if pw <= 0 || ph <= 0 {
		return nil, fmt.Errorf("%w: %dx%d gives a %dx%d preview", ErrInvalidGeometry, w, h, pw, ph)
	}
	return imaging.Resize(img, pw, ph, filter), nil
}
