// Package metadata reads and reinstates the EXIF metadata of photographs.
package metadata

import (
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// EXIF orientation values (tag 274).
const (
	OrientationNormal    = 1
	OrientationRotate180 = 3
	OrientationRotateCW  = 6 // displayed after a quarter turn clockwise
	OrientationRotateCCW = 8 // displayed after a quarter turn counter-clockwise
)

// ReadOrientation returns the EXIF orientation stored in r, or
// OrientationNormal when there is none.
func ReadOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return OrientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationNormal
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationNormal
	}
	return v
}

// Orientation returns the EXIF orientation of a file.
func Orientation(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		return OrientationNormal
	}
	defer f.Close()

	return ReadOrientation(f)
}

// Orient turns img upright according to its orientation tag.
//
// Only images at least as wide as they are tall are rotated: portrait
// frames are assumed to be upright already, whatever their tag says.
func Orient(img image.Image, orientation int) image.Image {
	if b := img.Bounds(); b.Dx() < b.Dy() {
		return img
	}

	switch orientation {
	case OrientationRotate180:
		return imaging.Rotate180(img)
	case OrientationRotateCW:
		return imaging.Rotate270(img)
	case OrientationRotateCCW:
		return imaging.Rotate90(img)
	}
	return img
}
