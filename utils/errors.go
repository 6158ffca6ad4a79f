package utils

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ShapeError is returned when an array, matrix or vector does not have the
// fixed shape an operation requires.
type ShapeError struct {
	Name     string
	Expected string
	Actual   []int
}

// NewShapeError returns a ShapeError for the named input. expected describes
// the required shape (e.g. "3x3") and actual is the shape that was supplied.
func NewShapeError(name, expected string, actual ...int) error {
	return &ShapeError{Name: name, Expected: expected, Actual: actual}
}

func (e *ShapeError) Error() string {
	dims := make([]string, 0, len(e.Actual))
	for _, d := range e.Actual {
		dims = append(dims, fmt.Sprint(d))
	}
	return fmt.Sprintf("%s has shape (%s) but expected %s", e.Name, strings.Join(dims, "x"), e.Expected)
}

// IsShapeError reports whether err, or any error it wraps, is a ShapeError.
func IsShapeError(err error) bool {
	var shapeErr *ShapeError
	return errors.As(err, &shapeErr)
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}
