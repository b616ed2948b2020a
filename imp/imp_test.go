package imp

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeHeadshot(t *testing.T) {
	img := headshot(120, 210)

	ext, err := Analyze(img, DefaultParams())
	require.NoError(t, err)
	require.Equal(t, Extrema{Min: 40, Max: 210}, ext)

	lut, err := BuildLUT(ext.Min, ext.Max)
	require.NoError(t, err)
	require.Equal(t, uint8(0), lut[40])
	require.Equal(t, uint8(128), lut[125])
	require.Equal(t, uint8(255), lut[210])
}

func TestSegmentHeadshot(t *testing.T) {
	p := DefaultParams()
	preview, err := Downsample(headshot(120, 210), p.PreviewSize, p.Filter)
	require.NoError(t, err)

	mask := Segment(preview, p)
	require.Equal(t, preview.Bounds().Dx(), mask.W)
	require.Equal(t, preview.Bounds().Dy(), mask.H)

	// subject body, both patches, and the backdrop
	require.True(t, mask.At(133, 250))
	require.True(t, mask.At(120, 160))
	require.True(t, mask.At(146, 280))
	require.False(t, mask.At(5, 5))
	require.False(t, mask.At(260, 395))
	// the eroded silhouette stays clear of the backdrop
	require.False(t, mask.At(68, 250))
}

func TestAnalyzeAllWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 600, 400))
	fill(img, img.Bounds(), 255)

	p := DefaultParams()
	preview, err := Downsample(img, p.PreviewSize, p.Filter)
	require.NoError(t, err)
	mask := Segment(preview, p)
	require.Zero(t, mask.Count())

	ext := FindExtrema(preview, mask, p)
	require.Equal(t, Extrema{Min: 255, Max: 0}, ext)

	_, _, err = Normalize(img, p)
	require.ErrorIs(t, err, ErrDegenerateRange)
}

func TestNormalizeIsNotIdempotent(t *testing.T) {
	p := DefaultParams()

	once, ext, err := Normalize(headshot(120, 200), p)
	require.NoError(t, err)
	require.Equal(t, Extrema{Min: 40, Max: 200}, ext)
	require.Equal(t, uint8(128), once.NRGBAAt(300, 1000).G)

	twice, ext2, err := Normalize(once, p)
	require.NoError(t, err)
	require.NotEqual(t, ext, ext2)
	require.NotEqual(t, once.Pix, twice.Pix)
}

type countingSegmenter struct {
	Morphology
	erosions int
}

func (c *countingSegmenter) Erode(m *Mask, radius int) *Mask {
	c.erosions++
	return c.Morphology.Erode(m, radius)
}

func TestCustomSegmenter(t *testing.T) {
	seg := &countingSegmenter{}
	p := DefaultParams()
	p.Segmenter = seg

	ext, err := Analyze(headshot(120, 210), p)
	require.NoError(t, err)
	require.Equal(t, Extrema{Min: 40, Max: 210}, ext)
	require.Equal(t, 1, seg.erosions)
}
