// Package testutils provides fixtures and harnesses shared by voxelops tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/voxelops/matfile"
	"go.viam.com/voxelops/voxel"
)

// BoxGrid returns a grid of the given extents with the half-open box
// [lo, hi) occupied on every axis.
func BoxGrid(t *testing.T, dims voxel.Dims, lo, hi int) *voxel.Grid {
	t.Helper()
	g, err := voxel.NewGrid(dims)
	test.That(t, err, test.ShouldBeNil)
	for y := lo; y < hi && y < dims.H; y++ {
		for x := lo; x < hi && x < dims.W; x++ {
			for z := lo; z < hi && z < dims.D; z++ {
				g.Set(y, x, z, 1)
			}
		}
	}
	return g
}

// WriteVoxelMAT saves g as the "voxel" variable of a compressed MAT-file in
// dir and returns its path.
func WriteVoxelMAT(t *testing.T, dir, name string, g *voxel.Grid) string {
	t.Helper()
	path := filepath.Join(dir, name)
	test.That(t, matfile.WriteFile(path, true, g.ToArray(voxel.VoxelVariable)), test.ShouldBeNil)
	return path
}

// WriteFile writes contents to name in dir and returns its path.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}
