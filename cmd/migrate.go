package cmd

import (
	"github.com/ArnaudCalmettes/headshot/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Perform automatic database migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return db.Close()
	},
}

// openDB opens the history database and migrates it.
func openDB() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", viper.GetString("db"))
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.Batch{},
		&models.Result{},
	).Error
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
