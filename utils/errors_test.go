package utils

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestShapeError(t *testing.T) {
	for _, tc := range []struct {
		name     string
		expected string
		actual   []int
		errStr   string
	}{
		{"rotation", "3x3", []int{2, 3}, "rotation has shape (2x3) but expected 3x3"},
		{"translation", "(3)", []int{4}, "translation has shape (4) but expected (3)"},
		{"grid", "positive extents", []int{0, 1, 1}, "grid has shape (0x1x1) but expected positive extents"},
		{"empty", "(3)", nil, "empty has shape () but expected (3)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := NewShapeError(tc.name, tc.expected, tc.actual...)
			test.That(t, err, test.ShouldBeError, tc.errStr)
			test.That(t, IsShapeError(err), test.ShouldBeTrue)
		})
	}
}

func TestIsShapeErrorWrapped(t *testing.T) {
	err := errors.Wrap(NewShapeError("rotation", "3x3", 4, 4), "cannot transform verts")
	test.That(t, IsShapeError(err), test.ShouldBeTrue)

	var shapeErr *ShapeError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
	test.That(t, shapeErr.Actual, test.ShouldResemble, []int{4, 4})

	test.That(t, IsShapeError(errors.New("whoops")), test.ShouldBeFalse)
	test.That(t, IsShapeError(nil), test.ShouldBeFalse)
}

func TestNewUnexpectedTypeError(t *testing.T) {
	err := NewUnexpectedTypeError([]float64{}, "str")
	test.That(t, err, test.ShouldBeError, "expected []float64 but got string")
}
