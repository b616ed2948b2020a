// Package batch normalizes every headshot of a folder.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ArnaudCalmettes/headshot/imp"
	"github.com/ArnaudCalmettes/headshot/metadata"
	"github.com/ArnaudCalmettes/headshot/stage"
	"golang.org/x/sync/errgroup"
)

// ErrTimeout is returned when an image takes longer than its allotted time.
var ErrTimeout = errors.New("timed out")

// Config describes a batch.
type Config struct {
	Root    string
	Workers int // defaults to the number of CPUs

	// Timeout bounds the time spent on each image, 0 for none. It is checked
	// between pipeline stages, so a stage already running isn't interrupted.
	// Once the output pixels exist the image is written regardless.
	Timeout time.Duration

	Params imp.Params
	Encode imp.EncodeOptions

	StageDir  string
	KeepStage bool

	// ExifTool reinstates the originals' metadata once the batch is done.
	// Metadata is dropped when nil.
	ExifTool *metadata.ExifTool
}

// A Recorder keeps track of processed images. Calls are serialized.
type Recorder interface {
	Record(Outcome) error
}

// Discover lists the JPEG files under root, in lexical order. The skip
// directory is not entered.
func Discover(root, skip string) ([]string, error) {
	skipAbs := ""
	if skip != "" {
		var err error
		if skipAbs, err = filepath.Abs(skip); err != nil {
			return nil, err
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == skipAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(d.Name(), ".") && isJPEG(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isJPEG(name string) bool {
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".jpg") || strings.EqualFold(ext, ".jpeg")
}

// Run normalizes every JPEG under cfg.Root.
//
// Images that can't be processed are skipped and reported in the summary.
// Only failures of the file system abort the batch, in which case the
// summary covers the images processed so far.
func Run(ctx context.Context, cfg Config, rec Recorder) (*Summary, error) {
	sum := &Summary{Root: cfg.Root, Started: time.Now()}

	files, err := Discover(cfg.Root, cfg.StageDir)
	if err != nil {
		return sum, fmt.Errorf("list %q: %w", cfg.Root, err)
	}

	st, err := stage.Open(cfg.Root, cfg.StageDir, cfg.KeepStage)
	if err != nil {
		return sum, err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Println("couldn't remove staging directory:", err)
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			out, err := process(gctx, cfg, st, path)
			if err != nil {
				return err
			}
			printOutcome(out)

			mu.Lock()
			defer mu.Unlock()
			sum.add(out)
			if rec != nil {
				if err := rec.Record(out); err != nil {
					log.Printf("couldn't record %s: %v", out.Path, err)
				}
			}
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	sum.sort()

	if cfg.ExifTool != nil && sum.Saved > 0 {
		fmt.Println("\nReinstating metadata.")
		// Images rewritten before an interruption get their metadata back too.
		merr := cfg.ExifTool.Reinstate(context.WithoutCancel(ctx), cfg.Root, st.Dir, sum.saved())
		if merr != nil {
			sum.MetadataError = merr.Error()
			st.Keep = true
			log.Println("there was a problem reinstating the metadata:", merr)
			log.Println("the originals are kept in", st.Dir)
		} else {
			fmt.Println("Metadata successfully added.")
		}
	}

	sum.Finished = time.Now()
	if err != nil {
		return sum, err
	}
	fmt.Println(sum)
	return sum, nil
}

func printOutcome(out Outcome) {
	switch out.Status {
	case StatusSaved:
		fmt.Printf("%s saved.\n", out.Path)
	default:
		fmt.Printf("%s skipped: %s\n", out.Path, out.Reason)
	}
}

// skippable returns true for errors that only concern the image at hand.
func skippable(err error) bool {
	return errors.Is(err, imp.ErrDecode) ||
		errors.Is(err, imp.ErrInvalidGeometry) ||
		errors.Is(err, imp.ErrDegenerateRange) ||
		errors.Is(err, ErrTimeout)
}

// sortOutcomes orders outcomes by path.
func sortOutcomes(o []Outcome) {
	sort.Slice(o, func(i, j int) bool { return o[i].Path < o[j].Path })
}
