package voxel

import (
	"testing"

	"go.viam.com/test"
)

func TestFlipRowsCols(t *testing.T) {
	g := seqGrid(t, Cube(2))
	flipped := FlipRowsCols(g)
	test.That(t, flipped.Dims(), test.ShouldResemble, Cube(2))
	test.That(t, flipped.Data(), test.ShouldResemble, []float64{6, 7, 4, 5, 2, 3, 0, 1})
	// input untouched
	test.That(t, g.Data(), test.ShouldResemble, []float64{0, 1, 2, 3, 4, 5, 6, 7})
	test.That(t, FlipRowsCols(flipped).Data(), test.ShouldResemble, g.Data())

	// depth is never flipped
	g = seqGrid(t, Dims{H: 1, W: 1, D: 3})
	test.That(t, FlipRowsCols(g).Data(), test.ShouldResemble, []float64{0, 1, 2})
}

func TestRot90(t *testing.T) {
	// one row: [[0 1 2] [3 4 5]] in the (column, depth) plane
	g := seqGrid(t, Dims{H: 1, W: 2, D: 3})

	for _, tc := range []struct {
		k    int
		dims Dims
		data []float64
	}{
		{0, Dims{1, 2, 3}, []float64{0, 1, 2, 3, 4, 5}},
		{1, Dims{1, 3, 2}, []float64{2, 5, 1, 4, 0, 3}},
		{2, Dims{1, 2, 3}, []float64{5, 4, 3, 2, 1, 0}},
		{3, Dims{1, 3, 2}, []float64{3, 0, 4, 1, 5, 2}},
		{4, Dims{1, 2, 3}, []float64{0, 1, 2, 3, 4, 5}},
		{-1, Dims{1, 3, 2}, []float64{3, 0, 4, 1, 5, 2}},
		{7, Dims{1, 3, 2}, []float64{3, 0, 4, 1, 5, 2}},
	} {
		rotated, err := Rot90(g, tc.k, [2]int{1, 2})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rotated.Dims(), test.ShouldResemble, tc.dims)
		test.That(t, rotated.Data(), test.ShouldResemble, tc.data)
	}
}

func TestRot90ThreeTurns(t *testing.T) {
	g := seqGrid(t, Dims{H: 2, W: 3, D: 4})
	rotated, err := Rot90(g, 3, [2]int{1, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rotated.Dims(), test.ShouldResemble, Dims{H: 2, W: 4, D: 3})
	for i := 0; i < 2; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 3; k++ {
				test.That(t, rotated.At(i, j, k), test.ShouldEqual, g.At(i, 3-1-k, j))
			}
		}
	}

	back, err := Rot90(rotated, 1, [2]int{1, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Dims(), test.ShouldResemble, g.Dims())
	test.That(t, back.Data(), test.ShouldResemble, g.Data())
}

func TestRot90OtherAxes(t *testing.T) {
	// [[0 1] [2 3]] in the (row, depth) plane
	g := seqGrid(t, Dims{H: 2, W: 1, D: 2})
	rotated, err := Rot90(g, 1, [2]int{0, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rotated.Data(), test.ShouldResemble, []float64{1, 3, 0, 2})

	// reversing the axes reverses the direction
	rotated, err = Rot90(g, 1, [2]int{2, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rotated.Data(), test.ShouldResemble, []float64{2, 0, 3, 1})

	for _, axes := range [][2]int{{1, 1}, {0, 3}, {-1, 2}} {
		_, err := Rot90(g, 1, axes)
		test.That(t, err, test.ShouldNotBeNil)
	}
}
