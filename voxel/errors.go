package voxel

import "fmt"

// EmptyVoxelError is returned when a grid has no occupied cells, so there are
// no points to normalize.
type EmptyVoxelError struct {
	Dims Dims
}

// NewEmptyVoxelError returns an EmptyVoxelError for a grid of the given extents.
func NewEmptyVoxelError(dims Dims) error {
	return &EmptyVoxelError{Dims: dims}
}

func (e *EmptyVoxelError) Error() string {
	if e.Dims == (Dims{}) {
		return "no occupied voxels"
	}
	return fmt.Sprintf("no occupied voxels in grid %v", e.Dims)
}

// DegenerateScaleError is returned when centered points all sit at the origin
// and cannot be scaled to unit size.
type DegenerateScaleError struct {
	Points int
}

// NewDegenerateScaleError returns a DegenerateScaleError for n points.
func NewDegenerateScaleError(n int) error {
	return &DegenerateScaleError{Points: n}
}

func (e *DegenerateScaleError) Error() string {
	return fmt.Sprintf("normalization scale is zero: all %d points coincide after centering", e.Points)
}
