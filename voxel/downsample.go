package voxel

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/voxelops/utils"
)

// Downsample reduces each factor×factor×factor block of g to one cell, using
// the block maximum when useMax is set and the block mean otherwise. Output
// extents are the input extents floor divided by factor; trailing rows,
// columns and slices that do not fill a block are dropped.
func Downsample(g *Grid, factor int, useMax bool) (*Grid, error) {
	if factor < 1 {
		return nil, errors.Errorf("downsample factor must be at least 1, got %d", factor)
	}
	in := g.dims
	outDims := Dims{H: in.H / factor, W: in.W / factor, D: in.D / factor}
	if outDims.Validate() != nil {
		return nil, utils.NewShapeError("grid", fmt.Sprintf("every extent at least %d to downsample by %d", factor, factor),
			in.H, in.W, in.D)
	}
	out := &Grid{dims: outDims, data: make([]float64, outDims.Len())}

	// each worker owns whole output rows, so writes never overlap
	utils.ParallelFor(outDims.H, func(from, to int) {
		block := make([]float64, 0, factor*factor*factor)
		for y := from; y < to; y++ {
			for x := 0; x < outDims.W; x++ {
				for z := 0; z < outDims.D; z++ {
					block = block[:0]
					for dy := 0; dy < factor; dy++ {
						for dx := 0; dx < factor; dx++ {
							// the depth run of a block is contiguous
							start := g.index(y*factor+dy, x*factor+dx, z*factor)
							block = append(block, g.data[start:start+factor]...)
						}
					}
					if useMax {
						out.Set(y, x, z, floats.Max(block))
					} else {
						out.Set(y, x, z, stat.Mean(block, nil))
					}
				}
			}
		}
	})
	return out, nil
}
