package voxel

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/voxelops/utils"
)

func filledGrid(t *testing.T, dims Dims, v float64) *Grid {
	t.Helper()
	g, err := NewGrid(dims)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				g.Set(y, x, z, v)
			}
		}
	}
	return g
}

func TestDownsampleUniform(t *testing.T) {
	for _, useMax := range []bool{true, false} {
		out, err := Downsample(filledGrid(t, Cube(4), 2.5), 2, useMax)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Dims(), test.ShouldResemble, Cube(2))
		test.That(t, out.Data(), test.ShouldResemble, []float64{2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5})
	}
}

func TestDownsampleTruncates(t *testing.T) {
	g := filledGrid(t, Cube(5), 1)
	// the last row, column and slice fall outside every block
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			g.Set(4, i, j, 100)
			g.Set(i, 4, j, 100)
			g.Set(i, j, 4, 100)
		}
	}
	for _, useMax := range []bool{true, false} {
		out, err := Downsample(g, 2, useMax)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Dims(), test.ShouldResemble, Cube(2))
		for _, v := range out.Data() {
			test.That(t, v, test.ShouldEqual, 1.0)
		}
	}
}

func TestDownsampleReductions(t *testing.T) {
	g := seqGrid(t, Cube(2))
	out, err := Downsample(g, 2, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{7})

	out, err = Downsample(g, 2, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{3.5})

	out, err = Downsample(g, 1, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, g.Data())
	test.That(t, out, test.ShouldNotEqual, g)
}

func TestDownsampleErrors(t *testing.T) {
	g := seqGrid(t, Dims{H: 4, W: 4, D: 2})
	for _, factor := range []int{0, -2} {
		_, err := Downsample(g, factor, true)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "at least 1")
	}
	_, err := Downsample(g, 3, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, utils.IsShapeError(err), test.ShouldBeTrue)
}

// sequential reference for the parallel implementation
func naiveDownsample(g *Grid, n int, useMax bool) []float64 {
	dims := g.Dims()
	var out []float64
	for y := 0; y < dims.H/n; y++ {
		for x := 0; x < dims.W/n; x++ {
			for z := 0; z < dims.D/n; z++ {
				acc := math.Inf(-1)
				if !useMax {
					acc = 0
				}
				for dy := 0; dy < n; dy++ {
					for dx := 0; dx < n; dx++ {
						for dz := 0; dz < n; dz++ {
							v := g.At(y*n+dy, x*n+dx, z*n+dz)
							if useMax {
								acc = math.Max(acc, v)
							} else {
								acc += v
							}
						}
					}
				}
				if !useMax {
					acc /= float64(n * n * n)
				}
				out = append(out, acc)
			}
		}
	}
	return out
}

func TestDownsampleMatchesSequential(t *testing.T) {
	old := utils.ParallelFactor
	defer func() {
		utils.ParallelFactor = old
	}()

	dims := Dims{H: 13, W: 9, D: 7}
	g, err := NewGrid(dims)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				g.Set(y, x, z, float64((y*31+x*17+z*7)%11))
			}
		}
	}

	for _, factor := range []int{1, 3, 8} {
		utils.ParallelFactor = factor
		for _, n := range []int{1, 2, 3} {
			for _, useMax := range []bool{true, false} {
				out, err := Downsample(g, n, useMax)
				test.That(t, err, test.ShouldBeNil)
				want := naiveDownsample(g, n, useMax)
				got := out.Data()
				test.That(t, len(got), test.ShouldEqual, len(want))
				for i := range want {
					test.That(t, got[i], test.ShouldAlmostEqual, want[i])
				}
			}
		}
	}
}
