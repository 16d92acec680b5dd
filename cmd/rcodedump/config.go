package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/riverside-software/rcode/pkg/rcode/charset"
)

// config mirrors the defaults a dump-tool user would otherwise have to
// repeat as flags every run.
type config struct {
	MaxSegmentSize int64  `toml:"max_segment_size"`
	Charset        string `toml:"charset"`
	Recursive      bool   `toml:"recursive"` // parsed but not used; batch always walks the whole tree
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// resolveOptions merges a loaded config file with flags explicitly set on
// cmd, flags taking precedence.
func resolveOptions(cmd *cobra.Command) (int64, charset.Charset, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return 0, charset.Charset{}, err
	}

	maxSize := cfg.MaxSegmentSize
	if cmd.Flags().Changed("max-segment-size") {
		maxSize, _ = cmd.Flags().GetInt64("max-segment-size")
	}

	charsetName := cfg.Charset
	if cmd.Flags().Changed("charset") {
		charsetName, _ = cmd.Flags().GetString("charset")
	}
	cs, err := charset.Named(charsetName)
	if err != nil {
		return 0, charset.Charset{}, err
	}

	return maxSize, cs, nil
}
