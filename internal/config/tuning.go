// Package config loads the tunable defaults for the labeler and descriptor
// pipeline from a JSON file, mirroring the pointer-optional-field pattern
// used elsewhere in this codebase's ambient stack.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/labeler.defaults.json"

// TuningConfig represents the root configuration for labeler and
// descriptor tuning parameters. Fields are pointers so that a partial
// JSON document (only the values an operator wants to override) can be
// unmarshalled without clobbering defaults supplied by the Get* methods.
type TuningConfig struct {
	// Labeler defaults
	MinSize        *int     `json:"min_size,omitempty"`
	MaxSize        *int     `json:"max_size,omitempty"`
	NoEdgeX        *bool    `json:"no_edge_x,omitempty"`
	NoEdgeY        *bool    `json:"no_edge_y,omitempty"`
	NoEdgeZ        *bool    `json:"no_edge_z,omitempty"`
	ExtractionMode *string  `json:"extraction_mode,omitempty"` // "background_all" | "background_labeled" | "exact_value" | "roi"
	ReferenceValue *float64 `json:"reference_value,omitempty"`

	// Descriptor tuning
	PerimeterCorrectionEnabled *bool `json:"perimeter_correction_enabled,omitempty"`
	HullMinPoints2D            *int `json:"hull_min_points_2d,omitempty"`
	HullMinPoints3D             *int `json:"hull_min_points_3d,omitempty"`

	// Pipeline concurrency
	MaxFrameWorkers *int `json:"max_frame_workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set fields carry legal values. Fields left nil
// are not checked here; ValidateComplete checks a config after defaults
// have been applied.
func (c *TuningConfig) Validate() error {
	if c.MinSize != nil && *c.MinSize < 1 {
		return fmt.Errorf("min_size must be >= 1, got %d", *c.MinSize)
	}
	if c.MinSize != nil && c.MaxSize != nil && *c.MaxSize < *c.MinSize {
		return fmt.Errorf("max_size (%d) must be >= min_size (%d)", *c.MaxSize, *c.MinSize)
	}
	if c.MaxSize != nil && *c.MaxSize < 1 {
		return fmt.Errorf("max_size must be >= 1, got %d", *c.MaxSize)
	}
	if c.ExtractionMode != nil {
		switch *c.ExtractionMode {
		case "background_all", "background_labeled", "exact_value", "roi":
		default:
			return fmt.Errorf("extraction_mode must be one of background_all|background_labeled|exact_value|roi, got %q", *c.ExtractionMode)
		}
	}
	if c.MaxFrameWorkers != nil && *c.MaxFrameWorkers < 1 {
		return fmt.Errorf("max_frame_workers must be >= 1, got %d", *c.MaxFrameWorkers)
	}
	return nil
}

// ValidateComplete validates a config after Get* defaults would be applied,
// i.e. it fails only on genuinely impossible combinations (min > max) using
// the effective (defaulted) values.
func (c *TuningConfig) ValidateComplete() error {
	if c.GetMinSize() > c.GetMaxSize() {
		return fmt.Errorf("effective min_size (%d) exceeds effective max_size (%d)", c.GetMinSize(), c.GetMaxSize())
	}
	return c.Validate()
}

// GetMinSize returns the min_size value or the default.
func (c *TuningConfig) GetMinSize() int {
	if c.MinSize == nil {
		return 1
	}
	return *c.MinSize
}

// GetMaxSize returns the max_size value or the default.
func (c *TuningConfig) GetMaxSize() int {
	if c.MaxSize == nil {
		return 1 << 30
	}
	return *c.MaxSize
}

// GetNoEdgeX returns the no_edge_x value or the default.
func (c *TuningConfig) GetNoEdgeX() bool {
	if c.NoEdgeX == nil {
		return false
	}
	return *c.NoEdgeX
}

// GetNoEdgeY returns the no_edge_y value or the default.
func (c *TuningConfig) GetNoEdgeY() bool {
	if c.NoEdgeY == nil {
		return false
	}
	return *c.NoEdgeY
}

// GetNoEdgeZ returns the no_edge_z value or the default.
func (c *TuningConfig) GetNoEdgeZ() bool {
	if c.NoEdgeZ == nil {
		return false
	}
	return *c.NoEdgeZ
}

// GetExtractionMode returns the extraction_mode value or the default.
func (c *TuningConfig) GetExtractionMode() string {
	if c.ExtractionMode == nil {
		return "background_all"
	}
	return *c.ExtractionMode
}

// GetReferenceValue returns the reference_value value or the default.
func (c *TuningConfig) GetReferenceValue() float64 {
	if c.ReferenceValue == nil {
		return 0
	}
	return *c.ReferenceValue
}

// GetPerimeterCorrectionEnabled returns whether the empirical perimeter
// correction term should be applied, or the default (enabled).
func (c *TuningConfig) GetPerimeterCorrectionEnabled() bool {
	if c.PerimeterCorrectionEnabled == nil {
		return true
	}
	return *c.PerimeterCorrectionEnabled
}

// GetHullMinPoints2D returns the minimum point count before a 2D hull is
// attempted, or the default.
func (c *TuningConfig) GetHullMinPoints2D() int {
	if c.HullMinPoints2D == nil {
		return 5
	}
	return *c.HullMinPoints2D
}

// GetHullMinPoints3D returns the minimum point count before a 3D hull is
// attempted, or the default.
func (c *TuningConfig) GetHullMinPoints3D() int {
	if c.HullMinPoints3D == nil {
		return 4
	}
	return *c.HullMinPoints3D
}

// GetMaxFrameWorkers returns the max number of t-slices labeled
// concurrently, or the default.
func (c *TuningConfig) GetMaxFrameWorkers() int {
	if c.MaxFrameWorkers == nil {
		return 4
	}
	return *c.MaxFrameWorkers
}
