package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ArnaudCalmettes/headshot/batch"
	"github.com/ArnaudCalmettes/headshot/models"
	"github.com/ArnaudCalmettes/headshot/notify"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <folder>",
	Short: "Normalize every headshot of a folder.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(args[0])
	},
}

// dbRecorder stores the outcome of every image in the history database.
type dbRecorder struct {
	db      *gorm.DB
	batchID string
}

func (r *dbRecorder) Record(o batch.Outcome) error {
	res := models.Result{
		BatchID: r.batchID,
		Path:    o.Path,
		Status:  string(o.Status),
		Reason:  o.Reason,
		Width:   o.Width,
		Height:  o.Height,
		Subject: o.Subject,
		Min:     int(o.Min),
		Max:     int(o.Max),
	}
	return res.Create(r.db)
}

func runBatch(folder string) error {
	root, err := filepath.Abs(folder)
	if err != nil {
		return err
	}
	cfg, err := batchConfig(root)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	b := models.Batch{ID: models.NewBatchID(started), Root: root, Started: started}
	if err := b.Save(db); err != nil {
		return err
	}

	sum, err := batch.Run(ctx, cfg, &dbRecorder{db: db, batchID: b.ID})
	b.Finished = sum.Finished
	b.Saved, b.Skipped = sum.Saved, sum.Skipped
	if serr := b.Save(db); serr != nil {
		log.Println("couldn't save batch:", serr)
	}

	if report := viper.GetString("report"); report != "" {
		if rerr := sum.WriteReport(report); rerr != nil {
			log.Println(rerr)
		}
	}

	discord := notify.Discord{
		Token:     viper.GetString("discord.token"),
		ChannelID: viper.GetString("discord.channel"),
	}
	if discord.Enabled() {
		if nerr := discord.Send(sum); nerr != nil {
			log.Println(nerr)
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("workers", "w", 0, "number of images processed in parallel (default is the number of CPUs)")
	runCmd.Flags().Duration("timeout", 0, "time allowed per image (default 2m)")
	runCmd.Flags().Bool("keep-backup", false, "keep the originals in the staging directory")
	runCmd.Flags().Bool("metadata", true, "copy the originals' metadata back with exiftool")
	runCmd.Flags().StringP("report", "r", "", "write a YAML report of the batch")
	viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	viper.BindPFlag("timeout", runCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("staging.keep", runCmd.Flags().Lookup("keep-backup"))
	viper.BindPFlag("exiftool.enabled", runCmd.Flags().Lookup("metadata"))
	viper.BindPFlag("report", runCmd.Flags().Lookup("report"))
}
