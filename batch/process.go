package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ArnaudCalmettes/headshot/imp"
	"github.com/ArnaudCalmettes/headshot/metadata"
	"github.com/ArnaudCalmettes/headshot/stage"
)

// checkpoint reports whether processing may go on. An expired image
// deadline is skippable, a cancelled batch is not.
func checkpoint(batch, image context.Context) error {
	if err := batch.Err(); err != nil {
		return err
	}
	if err := image.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return err
	}
	return nil
}

// process normalizes a single image in place. Errors that only concern this
// image are turned into a skipped outcome; the returned error is fatal to
// the batch.
func process(ctx context.Context, cfg Config, st *stage.Stage, path string) (Outcome, error) {
	start := time.Now()
	out := Outcome{Path: path, Status: StatusSkipped}
	if rel, err := filepath.Rel(cfg.Root, path); err == nil {
		out.Path = rel
	}

	err := normalize(ctx, cfg, st, path, &out)
	out.Duration = time.Since(start)
	switch {
	case err == nil:
		out.Status = StatusSaved
	case skippable(err):
		out.Reason = err.Error()
	default:
		return out, fmt.Errorf("%s: %w", out.Path, err)
	}
	return out, nil
}

func normalize(ctx context.Context, cfg Config, st *stage.Stage, path string, out *Outcome) error {
	ictx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ictx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	img, err := imp.ReadFile(path)
	if err != nil {
		return err
	}
	img = metadata.Orient(img, metadata.Orientation(path))
	out.Width, out.Height = img.Bounds().Dx(), img.Bounds().Dy()

	if err := checkpoint(ctx, ictx); err != nil {
		return err
	}
	preview, err := imp.Downsample(img, cfg.Params.PreviewSize, cfg.Params.Filter)
	if err != nil {
		return err
	}

	if err := checkpoint(ctx, ictx); err != nil {
		return err
	}
	mask := imp.Segment(preview, cfg.Params)
	out.Subject = mask.Count()

	if err := checkpoint(ctx, ictx); err != nil {
		return err
	}
	ext := imp.FindExtrema(preview, mask, cfg.Params)
	out.Min, out.Max = ext.Min, ext.Max

	lut, err := imp.BuildLUT(ext.Min, ext.Max)
	if err != nil {
		return err
	}

	if err := checkpoint(ctx, ictx); err != nil {
		return err
	}
	norm := imp.ApplyLUT(img, lut)

	// The original stays in the stage until its replacement is in place.
	if _, err := st.Move(path); err != nil {
		return err
	}
	if err := imp.Save(path, norm, cfg.Encode); err != nil {
		if rerr := st.Restore(path); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return err
	}
	return nil
}
