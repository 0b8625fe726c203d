package config

import (
	"errors"
	"fmt"
)

func validate(cfg *Config) error {
	if cfg.ExportPath == "" {
		return errors.New("export_path is required")
	}
	if cfg.OutputPath == "" {
		return errors.New("output_path is required")
	}
	if cfg.ExportPath == cfg.OutputPath {
		return fmt.Errorf("output_path must differ from export_path (%s)", cfg.ExportPath)
	}
	seen := make(map[int]bool, len(cfg.ExcludedCategories))
	for _, id := range cfg.ExcludedCategories {
		if seen[id] {
			return fmt.Errorf("duplicate excluded category id: %d", id)
		}
		seen[id] = true
	}
	return nil
}
