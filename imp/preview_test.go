package imp

import (
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"portrait", 1000, 1500, 266, 400},
		{"landscape", 1500, 1000, 400, 266},
		{"square", 500, 500, 400, 400},
		{"exact ratio", 1200, 900, 400, 300},
		{"upscale", 200, 100, 400, 200},
		{"sliver", 10000, 5, 400, 0},
		{"near square", 3000, 2745, 400, 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PreviewSize(tt.w, tt.h, DefaultPreviewSize)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
		})
	}
}

func TestDownsample(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 1500))
	fill(img, img.Bounds(), 77)

	preview, err := Downsample(img, DefaultPreviewSize, imaging.Box)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 266, 400), preview.Bounds())
	require.Equal(t, uint8(77), preview.NRGBAAt(133, 200).G)
}

func TestDownsampleInvalidGeometry(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 0, 10),
		image.Rect(0, 0, 10, 0),
		image.Rect(0, 0, 10000, 5),
	} {
		_, err := Downsample(image.NewNRGBA(r), DefaultPreviewSize, imaging.Box)
		require.ErrorIs(t, err, ErrInvalidGeometry, "%v", r)
	}
}

func TestFilterByName(t *testing.T) {
	for _, name := range []string{"box", "Lanczos", "catmullrom", "linear", "mitchell"} {
		_, err := FilterByName(name)
		require.NoError(t, err, name)
	}
	_, err := FilterByName("nearest")
	require.Error(t, err)
}
