package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "headshot",
	Short: "Studio headshot range normalizer",
	Long: `Stretches the black and white points of portrait photographs, measuring
them on the subject only so the backdrop doesn't bias the correction.`,
	SilenceUsage: true,
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.headshot.yaml)")
	rootCmd.PersistentFlags().String("db", "headshot.sqlite", "history database")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("timeout", 2*time.Minute)

	viper.SetDefault("preview.size", 400)
	viper.SetDefault("preview.filter", "box")

	viper.SetDefault("segment.high", 253)
	viper.SetDefault("segment.low", 190)
	viper.SetDefault("segment.erosion", 6)
	viper.SetDefault("segment.median", 1)

	viper.SetDefault("output.quality", 95)
	viper.SetDefault("output.dpi", 300)
	viper.SetDefault("output.icc", "")

	viper.SetDefault("staging.dir", "Temp")
	viper.SetDefault("staging.keep", false)

	viper.SetDefault("exiftool.path", "exiftool")
	viper.SetDefault("exiftool.enabled", true)
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".headshot" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".headshot")
	}

	viper.AutomaticEnv() // read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("HSHOT")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
