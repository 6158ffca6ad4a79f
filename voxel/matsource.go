package voxel

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/voxelops/logging"
	"go.viam.com/voxelops/matfile"
	"go.viam.com/voxelops/utils"
)

// VoxelVariable is the name of the MAT variable holding a voxel grid.
const VoxelVariable = "voxel"

// NewGridFromArray converts a 3D MAT array to a grid. Element (i, j, k) of the
// array becomes cell [i, j, k] of the grid.
func NewGridFromArray(arr *matfile.Array) (*Grid, error) {
	if len(arr.Dims) != 3 {
		return nil, utils.NewShapeError(arr.Name, "3 dimensions", arr.Dims...)
	}
	dims := dimsFromSlice(arr.Dims)
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if len(arr.Data) != dims.Len() {
		return nil, errors.Errorf("array %q has dims %v but %d values", arr.Name, arr.Dims, len(arr.Data))
	}
	g := &Grid{dims: dims, data: make([]float64, dims.Len())}
	i := 0
	// MAT data is column-major: the first index varies fastest
	for z := 0; z < dims.D; z++ {
		for x := 0; x < dims.W; x++ {
			for y := 0; y < dims.H; y++ {
				g.Set(y, x, z, arr.Data[i])
				i++
			}
		}
	}
	return g, nil
}

// ToArray converts g to a double MAT array with the given name.
func (g *Grid) ToArray(name string) *matfile.Array {
	dims := g.dims
	data := make([]float64, 0, dims.Len())
	for z := 0; z < dims.D; z++ {
		for x := 0; x < dims.W; x++ {
			for y := 0; y < dims.H; y++ {
				data = append(data, g.At(y, x, z))
			}
		}
	}
	return &matfile.Array{Name: name, Class: matfile.ClassDouble, Dims: dims.Slice(), Data: data}
}

type matFileSource struct {
	path   string
	logger logging.Logger
}

// NewMATFileSource returns a Source that loads the "voxel" variable of the
// MAT-file at path.
func NewMATFileSource(path string, logger logging.Logger) Source {
	return &matFileSource{path: path, logger: logger}
}

func (s *matFileSource) LoadVoxel() (*Grid, error) {
	f, err := matfile.Open(s.path)
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("opened MAT-file", "path", s.path, "description", f.Description, "variables", f.Names())
	arr, err := f.Variable(VoxelVariable)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", s.path)
	}
	g, err := NewGridFromArray(arr)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", s.path)
	}
	s.logger.Debugw("loaded voxel grid", "dims", g.Dims().String(), "class", arr.Class.String(), "occupied", g.Occupied())
	return g, nil
}

// ReadVoxelFile is ReadVoxel over the MAT-file at path.
func ReadVoxelFile(path string, logger logging.Logger) ([]r3.Vector, error) {
	return ReadVoxel(NewMATFileSource(path, logger))
}
