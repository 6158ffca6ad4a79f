package voxel

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/voxelops/utils"
)

func seqGrid(t *testing.T, dims Dims) *Grid {
	t.Helper()
	data := make([]float64, dims.Len())
	for i := range data {
		data[i] = float64(i)
	}
	g, err := NewGridFromData(dims, data)
	test.That(t, err, test.ShouldBeNil)
	return g
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(Dims{H: 2, W: 3, D: 4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Dims(), test.ShouldResemble, Dims{H: 2, W: 3, D: 4})
	test.That(t, len(g.Data()), test.ShouldEqual, 24)
	test.That(t, g.Occupied(), test.ShouldEqual, 0)

	for _, dims := range []Dims{{0, 1, 1}, {1, -1, 1}, {1, 1, 0}} {
		_, err := NewGrid(dims)
		test.That(t, utils.IsShapeError(err), test.ShouldBeTrue)
	}

	_, err = NewGridFromData(Cube(2), make([]float64, 7))
	test.That(t, utils.IsShapeError(err), test.ShouldBeTrue)

	// 2^21 * 2^21 * 2^22 cells wraps to 0
	_, err = NewGrid(Dims{H: 1 << 21, W: 1 << 21, D: 1 << 22})
	test.That(t, utils.IsShapeError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fits in an int")
}

func TestGridIndexing(t *testing.T) {
	g := seqGrid(t, Dims{H: 2, W: 3, D: 4})
	// row-major: ((y*W)+x)*D+z
	test.That(t, g.At(0, 0, 1), test.ShouldEqual, 1.0)
	test.That(t, g.At(0, 1, 0), test.ShouldEqual, 4.0)
	test.That(t, g.At(1, 0, 0), test.ShouldEqual, 12.0)
	test.That(t, g.At(1, 2, 3), test.ShouldEqual, 23.0)
	test.That(t, g.Occupied(), test.ShouldEqual, 23)

	g.Set(1, 2, 3, -1)
	test.That(t, g.At(1, 2, 3), test.ShouldEqual, -1.0)

	test.That(t, func() { g.At(2, 0, 0) }, test.ShouldPanic)
	test.That(t, func() { g.Set(0, 0, -1, 1) }, test.ShouldPanic)
}

func TestGridCopies(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	g, err := NewGridFromData(Cube(2), data)
	test.That(t, err, test.ShouldBeNil)
	data[0] = 100
	test.That(t, g.At(0, 0, 0), test.ShouldEqual, 1.0)

	out := g.Data()
	out[1] = 100
	test.That(t, g.At(0, 0, 1), test.ShouldEqual, 2.0)

	clone := g.Clone()
	clone.Set(0, 0, 0, 9)
	test.That(t, g.At(0, 0, 0), test.ShouldEqual, 1.0)
	test.That(t, clone.Dims(), test.ShouldResemble, g.Dims())
}
