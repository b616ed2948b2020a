package imp

import (
	"image"
	"image/color"
	"image/draw"
)

// fill paints r with a neutral gray level.
func fill(img draw.Image, r image.Rectangle, level uint8) {
	draw.Draw(img, r, &image.Uniform{C: color.NRGBA{level, level, level, 255}}, image.Point{}, draw.Src)
}

// headshot builds a 1000x1500 portrait on a white backdrop. The subject is
// mostly at level body, with a dark patch at 40 and a bright one at bright.
func headshot(body, bright uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 1500))
	fill(img, img.Bounds(), 255)
	fill(img, image.Rect(250, 300, 750, 1400), body)
	fill(img, image.Rect(350, 450, 550, 750), 40)
	fill(img, image.Rect(450, 900, 650, 1200), bright)
	return img
}
