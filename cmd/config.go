package cmd

import (
	"fmt"
	"os"

	"github.com/ArnaudCalmettes/headshot/batch"
	"github.com/ArnaudCalmettes/headshot/imp"
	"github.com/ArnaudCalmettes/headshot/metadata"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func level(key string) (uint8, error) {
	v := viper.GetInt(key)
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s must lie in [0,255], got %d", key, v)
	}
	return uint8(v), nil
}

// batchConfig builds the configuration of a batch over root from viper.
func batchConfig(root string) (batch.Config, error) {
	cfg := batch.Config{
		Root:      root,
		Workers:   viper.GetInt("workers"),
		Timeout:   viper.GetDuration("timeout"),
		KeepStage: viper.GetBool("staging.keep"),
	}

	filter, err := imp.FilterByName(viper.GetString("preview.filter"))
	if err != nil {
		return cfg, err
	}
	cfg.Params = imp.Params{
		PreviewSize:   viper.GetInt("preview.size"),
		Filter:        filter,
		ErosionRadius: viper.GetInt("segment.erosion"),
		MedianRadius:  viper.GetInt("segment.median"),
	}
	if cfg.Params.HighThreshold, err = level("segment.high"); err != nil {
		return cfg, err
	}
	if cfg.Params.LowThreshold, err = level("segment.low"); err != nil {
		return cfg, err
	}

	cfg.Encode = imp.EncodeOptions{
		Quality: viper.GetInt("output.quality"),
		DPI:     viper.GetInt("output.dpi"),
	}
	if icc := viper.GetString("output.icc"); icc != "" {
		path, err := homedir.Expand(icc)
		if err != nil {
			return cfg, err
		}
		if cfg.Encode.ICCProfile, err = os.ReadFile(path); err != nil {
			return cfg, fmt.Errorf("read icc profile: %w", err)
		}
	}

	if cfg.StageDir, err = homedir.Expand(viper.GetString("staging.dir")); err != nil {
		return cfg, err
	}

	if viper.GetBool("exiftool.enabled") {
		cfg.ExifTool = &metadata.ExifTool{Path: viper.GetString("exiftool.path")}
	}
	return cfg, nil
}
