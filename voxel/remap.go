package voxel

import (
	"github.com/pkg/errors"
)

// FlipRowsCols returns a copy of g with row r moved to H-1-r and column c
// moved to W-1-c. Depth is unchanged.
func FlipRowsCols(g *Grid) *Grid {
	dims := g.dims
	out := &Grid{dims: dims, data: make([]float64, len(g.data))}
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				out.Set(dims.H-1-y, dims.W-1-x, z, g.At(y, x, z))
			}
		}
	}
	return out
}

// Rot90 rotates g by k quarter turns in the plane of the two given axes,
// turning from the first axis towards the second. It matches NumPy's
// rot90(g, k, axes). Negative k turns the other way. Odd k swaps the extents
// of the two axes.
func Rot90(g *Grid, k int, axes [2]int) (*Grid, error) {
	a, b := axes[0], axes[1]
	if a < 0 || a > 2 || b < 0 || b > 2 || a == b {
		return nil, errors.Errorf("rotation axes %v must be two distinct axes of a 3D grid", axes)
	}
	k = ((k % 4) + 4) % 4

	in := g.dims.Slice()
	outDims := append([]int(nil), in...)
	if k%2 == 1 {
		outDims[a], outDims[b] = in[b], in[a]
	}
	out := &Grid{dims: dimsFromSlice(outDims), data: make([]float64, len(g.data))}

	var o, src [3]int
	for o[0] = 0; o[0] < outDims[0]; o[0]++ {
		for o[1] = 0; o[1] < outDims[1]; o[1]++ {
			for o[2] = 0; o[2] < outDims[2]; o[2]++ {
				src = o
				switch k {
				case 1:
					src[a] = o[b]
					src[b] = in[b] - 1 - o[a]
				case 2:
					src[a] = in[a] - 1 - o[a]
					src[b] = in[b] - 1 - o[b]
				case 3:
					src[a] = in[a] - 1 - o[b]
					src[b] = o[a]
				}
				out.Set(o[0], o[1], o[2], g.At(src[0], src[1], src[2]))
			}
		}
	}
	return out, nil
}
