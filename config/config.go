// Package config defines the JSON job file that drives a voxelops run.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Config describes one run: where the points come from, how they are posed
// and rasterized, and what gets written.
type Config struct {
	Input       string    `json:"input"`
	Size        int       `json:"size"`
	Downsample  int       `json:"downsample,omitempty"`
	UseMean     bool      `json:"use_mean,omitempty"`
	Rotation    *Rotation `json:"rotation,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
	Outputs     Outputs   `json:"outputs"`
	Mesh        string    `json:"mesh,omitempty"`
}

// Rotation turns the points about one of the coordinate axes.
type Rotation struct {
	Axis    string  `json:"axis"`
	Degrees float64 `json:"degrees"`
}

// Outputs lists the files to write. Empty paths are skipped.
type Outputs struct {
	MAT  string `json:"mat,omitempty"`
	PCD  string `json:"pcd,omitempty"`
	HTML string `json:"html,omitempty"`
	PNG  string `json:"png,omitempty"`
	// PNGAxis is the grid axis the PNG projection collapses; 2 (depth) by default.
	PNGAxis *int `json:"png_axis,omitempty"`
}

// DefaultPNGAxis projects along depth.
const DefaultPNGAxis = 2

// ProjectionAxis returns the configured PNG axis or DefaultPNGAxis.
func (o *Outputs) ProjectionAxis() int {
	if o.PNGAxis == nil {
		return DefaultPNGAxis
	}
	return *o.PNGAxis
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Input == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "input")
	}
	if conf.Size <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("size must be positive, got %d", conf.Size))
	}
	if conf.Downsample < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("downsample must not be negative, got %d", conf.Downsample))
	}
	if conf.Downsample > conf.Size {
		return utils.NewConfigValidationError(path,
			errors.Errorf("downsample %d would leave nothing of a grid of size %d", conf.Downsample, conf.Size))
	}
	if conf.Rotation != nil {
		if err := conf.Rotation.Validate(joinPath(path, "rotation")); err != nil {
			return err
		}
	}
	if conf.Translation != nil && len(conf.Translation) != 3 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("translation must have 3 values, got %d", len(conf.Translation)))
	}
	return conf.Outputs.Validate(joinPath(path, "outputs"))
}

// Validate ensures all parts of the config are valid.
func (r *Rotation) Validate(path string) error {
	switch strings.ToLower(r.Axis) {
	case "x", "y", "z":
		return nil
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "axis")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("axis must be x, y or z, got %q", r.Axis))
	}
}

// Validate ensures all parts of the config are valid.
func (o *Outputs) Validate(path string) error {
	if axis := o.ProjectionAxis(); axis < 0 || axis > 2 {
		return utils.NewConfigValidationError(path, errors.Errorf("png_axis must be 0, 1 or 2, got %d", axis))
	}
	return nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", path, field)
}
