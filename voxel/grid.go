// Package voxel implements dense occupancy grids and the conversions between
// them and sparse point sets: rasterizing verts into a grid, reading a stored
// grid back into normalized verts, and downsampling.
package voxel

import (
	"fmt"
	"math"

	"go.viam.com/voxelops/utils"
)

// Dims are the extents of a grid: H rows, W columns and D depth slices.
type Dims struct {
	H, W, D int
}

// Cube returns Dims with n along every axis.
func Cube(n int) Dims {
	return Dims{H: n, W: n, D: n}
}

// Len is the number of cells.
func (d Dims) Len() int {
	return d.H * d.W * d.D
}

// Slice returns the extents in axis order.
func (d Dims) Slice() []int {
	return []int{d.H, d.W, d.D}
}

func (d Dims) String() string {
	return fmt.Sprintf("(%d, %d, %d)", d.H, d.W, d.D)
}

// Validate returns a ShapeError unless every extent is positive and the cell
// count fits in an int.
func (d Dims) Validate() error {
	if d.H <= 0 || d.W <= 0 || d.D <= 0 {
		return utils.NewShapeError("grid", "positive extents", d.H, d.W, d.D)
	}
	if d.H > math.MaxInt/d.W || d.H*d.W > math.MaxInt/d.D {
		return utils.NewShapeError("grid", "a cell count that fits in an int", d.H, d.W, d.D)
	}
	return nil
}

func dimsFromSlice(s []int) Dims {
	return Dims{H: s[0], W: s[1], D: s[2]}
}

// Grid is a dense 3D array of values indexed [row, column, depth]. Cells are
// stored in row-major order.
type Grid struct {
	dims Dims
	data []float64
}

// NewGrid returns a zero filled grid.
func NewGrid(dims Dims) (*Grid, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return &Grid{dims: dims, data: make([]float64, dims.Len())}, nil
}

// NewGridFromData returns a grid holding a copy of data, which must be in
// row-major order with exactly one value per cell.
func NewGridFromData(dims Dims, data []float64) (*Grid, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if len(data) != dims.Len() {
		return nil, utils.NewShapeError("grid data", fmt.Sprintf("%d values for extents %v", dims.Len(), dims), len(data))
	}
	return &Grid{dims: dims, data: append([]float64(nil), data...)}, nil
}

// Dims returns the extents of the grid.
func (g *Grid) Dims() Dims {
	return g.dims
}

func (g *Grid) index(y, x, z int) int {
	if y < 0 || y >= g.dims.H || x < 0 || x >= g.dims.W || z < 0 || z >= g.dims.D {
		panic(fmt.Sprintf("voxel: index (%d, %d, %d) out of range for grid %v", y, x, z, g.dims))
	}
	return (y*g.dims.W+x)*g.dims.D + z
}

// At returns the value at row y, column x and depth z. It panics when the
// index is out of range.
func (g *Grid) At(y, x, z int) float64 {
	return g.data[g.index(y, x, z)]
}

// Set stores v at row y, column x and depth z. It panics when the index is
// out of range.
func (g *Grid) Set(y, x, z int, v float64) {
	g.data[g.index(y, x, z)] = v
}

// Data returns a row-major copy of the values.
func (g *Grid) Data() []float64 {
	return append([]float64(nil), g.data...)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{dims: g.dims, data: g.Data()}
}

// Occupied counts the cells with a value greater than zero.
func (g *Grid) Occupied() int {
	n := 0
	for _, v := range g.data {
		if v > 0 {
			n++
		}
	}
	return n
}
