// Package imp implements the image processing behind subject-aware range
// normalization: previews, subject segmentation, extrema and LUTs.
package imp

import (
	"image"

	"github.com/disintegration/imaging"
)

// Params tunes the analysis of an image.
type Params struct {
	PreviewSize   int
	Filter        imaging.ResampleFilter
	HighThreshold uint8 // background seeds are brighter than this
	LowThreshold  uint8 // subject seeds are darker than this
	ErosionRadius int
	MedianRadius  int

	// Segmenter defaults to Morphology when nil.
	Segmenter Segmenter
}

// DefaultParams returns the parameters used for studio headshots.
func DefaultParams() Params {
	return Params{
		PreviewSize:   DefaultPreviewSize,
		Filter:        imaging.Box,
		HighThreshold: DefaultHighThreshold,
		LowThreshold:  DefaultLowThreshold,
		ErosionRadius: DefaultErosionRadius,
		MedianRadius:  DefaultMedianRadius,
	}
}

func (p Params) segmenter() Segmenter {
	if p.Segmenter == nil {
		return Morphology{}
	}
	return p.Segmenter
}

// Analyze measures the subject-restricted extrema of img.
func Analyze(img image.Image, p Params) (Extrema, error) {
	preview, err := Downsample(img, p.PreviewSize, p.Filter)
	if err != nil {
		return Extrema{}, err
	}
	return FindExtrema(preview, Segment(preview, p), p), nil
}

// Normalize stretches img so that its subject spans the whole range.
func Normalize(img image.Image, p Params) (*image.NRGBA, Extrema, error) {
	ext, err := Analyze(img, p)
	if err != nil {
		return nil, ext, err
	}
	lut, err := BuildLUT(ext.Min, ext.Max)
	if err != nil {
		return nil, ext, err
	}
	return ApplyLUT(img, lut), ext, nil
}
