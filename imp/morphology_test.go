package imp

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisk(t *testing.T) {
	require.Len(t, disk(0), 1)
	require.Len(t, disk(1), 5)
	require.Len(t, disk(6), 113)
}

func TestErodeIsSubset(t *testing.T) {
	m := NewMask(40, 30)
	for y := 5; y < 25; y++ {
		for x := 3; x < 30; x++ {
			m.Bits[y*m.W+x] = true
		}
	}
	// a thin scratch that erosion must remove
	for x := 5; x < 20; x++ {
		m.Bits[27*m.W+x] = true
	}

	for _, r := range []int{0, 1, 3, 6} {
		e := Morphology{}.Erode(m, r)
		for i := range e.Bits {
			if e.Bits[i] {
				require.True(t, m.Bits[i], "radius %d: pixel %d not in source mask", r, i)
			}
		}
		if r > 0 {
			require.Less(t, e.Count(), m.Count())
			require.False(t, e.At(10, 27))
		}
	}

	e := Morphology{}.Erode(m, 6)
	require.True(t, e.At(15, 15))
	require.False(t, e.At(3, 15))
	require.Equal(t, (27-12)*(20-12), e.Count())
}

func TestErodeBorder(t *testing.T) {
	m := NewMask(10, 10)
	for i := range m.Bits {
		m.Bits[i] = true
	}
	require.Equal(t, 100, Morphology{}.Erode(m, 6).Count())
}

func TestWatershed(t *testing.T) {
	// Two flat plateaus separated by a ridge at x == 5.
	w, h := 11, 5
	edges := &EdgeMap{W: w, H: h, Mag: make([]float32, w*h)}
	markers := &LabelGrid{W: w, H: h, Labels: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		edges.Mag[y*w+5] = 10
	}
	markers.Labels[2*w+0] = LabelBackground
	markers.Labels[2*w+10] = LabelSubject

	labels := Morphology{}.Watershed(edges, markers)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels.Labels[y*w+x]
			switch {
			case x < 5:
				require.Equal(t, LabelBackground, l, "(%d,%d)", x, y)
			case x > 5:
				require.Equal(t, LabelSubject, l, "(%d,%d)", x, y)
			default:
				require.NotEqual(t, LabelNone, l, "(%d,%d)", x, y)
			}
		}
	}
	require.Equal(t, uint8(0), markers.Labels[2*w+1], "markers must not be modified")
}

func TestWatershedWithoutMarkers(t *testing.T) {
	edges := &EdgeMap{W: 4, H: 4, Mag: make([]float32, 16)}
	markers := &LabelGrid{W: 4, H: 4, Labels: make([]uint8, 16)}
	labels := Morphology{}.Watershed(edges, markers)
	require.Zero(t, labels.Mask(LabelSubject).Count())
	require.Zero(t, labels.Mask(LabelBackground).Count())
}

func TestEdgeMap(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	e := Morphology{}.EdgeMap(img)
	require.Zero(t, e.Mag[4*8+1])
	require.Zero(t, e.Mag[4*8+6])
	require.Greater(t, e.Mag[4*8+3], float32(0))
	require.Greater(t, e.Mag[4*8+4], float32(0))
}

func TestMedian(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	img.SetGray(2, 2, color.Gray{Y: 255})
	img.SetGray(0, 0, color.Gray{Y: 0})

	got := Morphology{}.Median(img, 1)
	// the replicated border outvotes the corner's neighbours
	require.Equal(t, uint8(0), got.GrayAt(0, 0).Y)
	for i, v := range got.Pix[1:] {
		require.Equal(t, uint8(100), v, "pixel %d", i+1)
	}
	require.Equal(t, uint8(255), img.GrayAt(2, 2).Y, "source must not be modified")

	same := Morphology{}.Median(img, 0)
	require.Equal(t, img.Pix, same.Pix)
}

func TestMarkers(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(img.Pix, []uint8{254, 253, 190, 189})
	g := Markers(img, DefaultLowThreshold, DefaultHighThreshold)
	require.Equal(t, []uint8{LabelBackground, LabelNone, LabelNone, LabelSubject}, g.Labels)
}
