package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens/internal/config"
	"github.com/varlens/varlens/internal/render"
)

// loadConfig resolves the effective configuration, letting the --color
// flag override the file setting.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, err
	}
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	return cfg, nil
}

// readSource loads the script at path, enforcing a recognized extension.
func readSource(path string) (string, error) {
	ext := filepath.Ext(path)
	if !slices.Contains(config.SourceFileExtensions, ext) {
		return "", fmt.Errorf("unsupported file extension %q (want %s)", ext, config.SourceFileExt)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func colored(cfg *config.Config) bool {
	return render.ShouldColor(cfg.Color, os.Stdout)
}
