package imp

import (
	"image"
)

// Default segmentation thresholds, tuned for bright studio backdrops.
const (
	DefaultHighThreshold = 253
	DefaultLowThreshold  = 190
	DefaultErosionRadius = 6
)

// Markers seeds a watershed from a grayscale picture: pixels brighter than
// high are background, pixels darker than low are subject, the rest is left
// for the flood to decide.
func Markers(src *image.Gray, low, high uint8) *LabelGrid {
	b := src.Bounds()
	g := &LabelGrid{W: b.Dx(), H: b.Dy(), Labels: make([]uint8, b.Dx()*b.Dy())}

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := src.Pix[y*src.Stride+x]
			if v > high {
				g.Labels[y*g.W+x] = LabelBackground
			} else if v < low {
				g.Labels[y*g.W+x] = LabelSubject
			}
		}
	}
	return g
}

// Segment isolates the subject of a preview. The returned mask is shrunk
// by the erosion radius so the silhouette's halo doesn't leak in.
//
// A preview without any seed yields an empty mask.
func Segment(preview *image.NRGBA, p Params) *Mask {
	seg := p.segmenter()
	green := Channel(preview, Green)
	edges := seg.EdgeMap(green)
	labels := seg.Watershed(edges, Markers(green, p.LowThreshold, p.HighThreshold))
	return seg.Erode(labels.Mask(LabelSubject), p.ErosionRadius)
}
