package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ArnaudCalmettes/headshot/models"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var (
	historyBatch string
	historyLimit int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [image]",
	Short: "Show past batches, the results of a batch, or the history of an image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		switch {
		case len(args) == 1:
			return imageHistory(os.Stdout, db, args[0])
		case historyBatch != "":
			return batchResults(os.Stdout, db, historyBatch)
		default:
			return listBatches(os.Stdout, db, historyLimit)
		}
	},
}

func listBatches(out io.Writer, db *gorm.DB, limit int) error {
	batches, err := models.ListBatches(db, limit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Fprintln(out, "No batch was run yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 5, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tROOT\tSAVED\tSKIPPED\tDURATION\t")
	for _, b := range batches {
		d := "-"
		if !b.Finished.IsZero() {
			d = b.Finished.Sub(b.Started).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t\n", b.ID, b.Root, b.Saved, b.Skipped, d)
	}
	return w.Flush()
}

func batchResults(out io.Writer, db *gorm.DB, id string) error {
	if id == "last" {
		b, err := models.LastBatch(db)
		if err != nil {
			return err
		}
		id = b.ID
	}
	results, err := models.ListResults(db, id)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for batch %q", id)
	}
	return printResults(out, results)
}

func imageHistory(out io.Writer, db *gorm.DB, path string) error {
	results, err := models.FindResults(db, path)
	if err != nil {
		return err
	}
	if len(results) > 0 {
		return printResults(out, results)
	}

	paths, err := models.ListPaths(db)
	if err != nil {
		return err
	}
	if best, score := findClosestPath(path, paths); score <= len(path)/3 {
		return fmt.Errorf("no history for %q (did you mean %q?)", path, best)
	}
	return fmt.Errorf("no history for %q", path)
}

// findClosestPath returns the known path that is the fewest edits away from
// name.
func findClosestPath(name string, paths []string) (best string, score int) {
	score = len(name) + 1
	for _, p := range paths {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(p), levenshtein.DefaultOptions)
		if d < score {
			best = p
			score = d
		}
	}
	return
}

func printResults(out io.Writer, results []models.Result) error {
	w := tabwriter.NewWriter(out, 5, 0, 3, ' ', 0)
	fmt.Fprintln(w, "BATCH\tIMAGE\tSTATUS\tMIN\tMAX\tREASON\t")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t\n", r.BatchID, r.Path, r.Status, r.Min, r.Max, r.Reason)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyBatch, "batch", "b", "", "show the results of a batch (\"last\" for the most recent one)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of batches to list")
}
