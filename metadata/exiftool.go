package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ErrNoExifTool is returned when the exiftool binary can't be found.
var ErrNoExifTool = errors.New("exiftool not found")

// exifToolBatch bounds the number of files passed to a single invocation.
const exifToolBatch = 200

// ExifTool copies metadata from staged originals back onto rewritten files.
type ExifTool struct {
	// Path is the exiftool binary, looked up in $PATH when not absolute.
	Path string
}

// Args returns the exiftool arguments copying every tag but the orientation
// and the thumbnail from the copies under stageDir onto files. Files are
// relative to the directory exiftool runs in, which mirrors stageDir.
func (e ExifTool) Args(stageDir string, files []string) []string {
	args := []string{
		"-tagsfromfile", filepath.ToSlash(stageDir) + "/%d/%f.%e",
		"-all:all",
		"--IFD0:Orientation",
		"--ThumbnailImage",
		"-overwrite_original",
	}
	for _, f := range files {
		args = append(args, filepath.ToSlash(f))
	}
	return args
}

// Reinstate copies the metadata of the originals staged in stageDir onto
// files, given relative to root. Running it twice yields the same tags.
func (e ExifTool) Reinstate(ctx context.Context, root, stageDir string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	bin, err := exec.LookPath(e.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoExifTool, err)
	}
	stageDir, err = filepath.Abs(stageDir)
	if err != nil {
		return err
	}

	for start := 0; start < len(files); start += exifToolBatch {
		end := min(start+exifToolBatch, len(files))
		cmd := exec.CommandContext(ctx, bin, e.Args(stageDir, files[start:end])...)
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("exiftool: %w (%s)", err, bytes.TrimSpace(out))
		}
	}
	return nil
}
