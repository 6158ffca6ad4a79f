package voxel

import (
	"github.com/golang/geo/r3"
)

// RasterizeStats counts what happened to the points given to
// VertsToVoxelWithStats.
type RasterizeStats struct {
	// Kept is the number of points that landed inside the grid.
	Kept int
	// Dropped is the number of points that mapped outside the grid or had a
	// NaN coordinate.
	Dropped int
}

// VertsToVoxel rasterizes points in normalized [-1, 1] space into an
// occupancy grid. See VertsToVoxelWithStats.
func VertsToVoxel(verts []r3.Vector, dims Dims) (*Grid, error) {
	g, _, err := VertsToVoxelWithStats(verts, dims)
	return g, err
}

// VertsToVoxelWithStats rasterizes points in normalized [-1, 1] space into an
// occupancy grid with the given extents. X selects the column, Y the row and
// Z the depth slice; each index is ((p+1)*(extent-1)/2) truncated toward zero.
// A point whose index is outside the grid on any axis is dropped, never
// clamped. Every kept point sets its cell to 1. The filled grid is then
// flipped along rows and columns so that row 0 is the top of the image.
func VertsToVoxelWithStats(verts []r3.Vector, dims Dims) (*Grid, RasterizeStats, error) {
	var stats RasterizeStats
	g, err := NewGrid(dims)
	if err != nil {
		return nil, stats, err
	}
	for _, p := range verts {
		ix, okX := cellIndex(p.X, dims.W)
		iy, okY := cellIndex(p.Y, dims.H)
		iz, okZ := cellIndex(p.Z, dims.D)
		if !okX || !okY || !okZ {
			stats.Dropped++
			continue
		}
		g.Set(iy, ix, iz, 1)
		stats.Kept++
	}
	return FlipRowsCols(g), stats, nil
}

// cellIndex maps a normalized coordinate onto [0, extent). Truncation is
// toward zero, so values in (-1, 0) still land on index 0.
func cellIndex(p float64, extent int) (int, bool) {
	f := (p + 1) * float64(extent-1) / 2
	// written so that NaN fails
	if !(f > -1 && f < float64(extent)) {
		return 0, false
	}
	return int(f), true
}
