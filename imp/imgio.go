package imp

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// EncodeOptions control how normalized images are written.
type EncodeOptions struct {
	Quality    int    // JPEG quality
	DPI        int    // resolution stored in the JFIF header, 0 to omit
	ICCProfile []byte // embedded as is, nil to omit
}

// DefaultEncodeOptions returns the options used for print-ready headshots.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Quality: 95, DPI: 300}
}

// ReadFile reads an image from a file. EXIF orientation is not applied.
func ReadFile(filename string) (image.Image, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Save writes an image to a file. Image format is decided based upon its
// extension (either "png", "jpg" or "jpeg"). The file is replaced
// atomically: readers never see a partially written image.
func Save(filename string, img image.Image, opts EncodeOptions) error {
	var b bytes.Buffer

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		if err := imaging.Encode(&b, img, imaging.PNG); err != nil {
			return err
		}
	case ".jpg", ".jpeg":
		if err := encodeJPEG(&b, img, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown extension %v", ext)
	}

	return writeFile(filename, b.Bytes())
}

func writeFile(filename string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(0644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, filename)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}

// iccChunkSize is the largest profile slice an APP2 segment can carry.
const iccChunkSize = 0xFFFF - 2 - 14

func encodeJPEG(b *bytes.Buffer, img image.Image, opts EncodeOptions) error {
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultEncodeOptions().Quality
	}

	var raw bytes.Buffer
	if err := imaging.Encode(&raw, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return err
	}
	data := raw.Bytes()
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return errors.New("jpeg encoder didn't produce a SOI marker")
	}

	icc, err := iccSegments(opts.ICCProfile)
	if err != nil {
		return err
	}

	b.Write(data[:2])
	if opts.DPI > 0 {
		b.Write(jfifSegment(opts.DPI))
	}
	b.Write(icc)
	b.Write(data[2:])
	return nil
}

// jfifSegment builds an APP0 segment declaring the resolution in dots per
// inch.
func jfifSegment(dpi int) []byte {
	if dpi > 0xFFFF {
		dpi = 0xFFFF
	}
	hi, lo := byte(dpi>>8), byte(dpi)
	return []byte{
		0xFF, 0xE0, 0x00, 0x10,
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.01
		0x01, // units: dpi
		hi, lo, hi, lo,
		0x00, 0x00, // no thumbnail
	}
}

// iccSegments splits an ICC profile into APP2 segments.
func iccSegments(profile []byte) ([]byte, error) {
	if len(profile) == 0 {
		return nil, nil
	}
	n := (len(profile) + iccChunkSize - 1) / iccChunkSize
	if n > 255 {
		return nil, fmt.Errorf("icc profile too large (%d bytes)", len(profile))
	}

	var b bytes.Buffer
	for i := 0; i < n; i++ {
		chunk := profile[i*iccChunkSize : min((i+1)*iccChunkSize, len(profile))]
		length := 2 + 14 + len(chunk)
		b.Write([]byte{0xFF, 0xE2, byte(length >> 8), byte(length)})
		b.WriteString("ICC_PROFILE\x00")
		b.WriteByte(byte(i + 1))
		b.WriteByte(byte(n))
		b.Write(chunk)
	}
	return b.Bytes(), nil
}
