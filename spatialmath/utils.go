package spatialmath

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ParseFloats splits a list of numbers separated by commas and/or spaces, as
// written in flags like "0.1,0,-0.2".
func ParseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var firstErr error
	values := lo.Map(fields, func(field string, _ int) float64 {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "invalid number %q", field)
		}
		return value
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}

// ParseAxis parses one of the named axes "x", "y" or "z" into a unit vector.
func ParseAxis(name string) (r3.Vector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return r3.Vector{X: 1}, nil
	case "y":
		return r3.Vector{Y: 1}, nil
	case "z":
		return r3.Vector{Z: 1}, nil
	default:
		return r3.Vector{}, errors.Errorf("unknown rotation axis %q, expected x, y or z", name)
	}
}
