package voxel

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/voxelops/pointcloud"
)

// Source loads a stored voxel grid.
type Source interface {
	LoadVoxel() (*Grid, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (*Grid, error)

// LoadVoxel calls f.
func (f SourceFunc) LoadVoxel() (*Grid, error) {
	return f()
}

// GridSource is a Source over a grid already in memory.
type GridSource struct {
	Grid *Grid
}

// LoadVoxel returns a copy of the grid.
func (s GridSource) LoadVoxel() (*Grid, error) {
	if s.Grid == nil {
		return nil, errors.New("grid source has no grid")
	}
	return s.Grid.Clone(), nil
}

// ReadVoxel loads a grid from src and turns its occupied cells into points
// normalized to fit within a ball of radius 0.5 around the origin. The grid is
// first turned three quarter turns in the plane of axes 1 and 2 to undo the
// stored axis order.
func ReadVoxel(src Source) ([]r3.Vector, error) {
	g, err := src.LoadVoxel()
	if err != nil {
		return nil, errors.Wrap(err, "loading voxel grid")
	}
	rotated, err := Rot90(g, 3, [2]int{1, 2})
	if err != nil {
		return nil, err
	}
	coords := OccupiedCoords(rotated)
	if len(coords) == 0 {
		return nil, NewEmptyVoxelError(rotated.Dims())
	}
	return NormalizeVerts(coords)
}

// OccupiedCoords returns the (row, column, depth) index of every cell with a
// value greater than zero as X, Y and Z, in row-major scan order.
func OccupiedCoords(g *Grid) []r3.Vector {
	var coords []r3.Vector
	dims := g.dims
	i := 0
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				if g.data[i] > 0 {
					coords = append(coords, r3.Vector{X: float64(y), Y: float64(x), Z: float64(z)})
				}
				i++
			}
		}
	}
	return coords
}

// NormalizeVerts centers the bounding box of verts on the origin, each axis on
// its own, then divides by twice the largest distance from the origin. The
// result lies within a ball of radius 0.5.
func NormalizeVerts(verts []r3.Vector) ([]r3.Vector, error) {
	if len(verts) == 0 {
		return nil, NewEmptyVoxelError(Dims{})
	}
	center := pointcloud.MetaDataOf(verts).Center()

	out := make([]r3.Vector, len(verts))
	var maxNorm2 float64
	for i, v := range verts {
		out[i] = v.Sub(center)
		maxNorm2 = math.Max(maxNorm2, out[i].Norm2())
	}
	scale := 2 * math.Sqrt(maxNorm2)
	if scale == 0 {
		return nil, NewDegenerateScaleError(len(verts))
	}
	for i, v := range out {
		out[i] = r3.Vector{X: v.X / scale, Y: v.Y / scale, Z: v.Z / scale}
	}
	return out, nil
}
