// Package pointcloud holds helpers for sparse point sets ("verts"): their
// axis-aligned bounds and PCD file import and export.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// MetaData is data about a set of points.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64

	count int
}

// NewMetaData returns metadata for an empty point set. Its bounds are
// inverted so the first Merge sets them.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// MetaDataOf returns the metadata of every point in verts.
func MetaDataOf(verts []r3.Vector) MetaData {
	meta := NewMetaData()
	for _, v := range verts {
		meta.Merge(v)
	}
	return meta
}

// Merge updates the bounds to include v.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.count++

	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}

	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// Size is the number of points merged so far.
func (meta MetaData) Size() int {
	return meta.count
}

// Center is the midpoint of the bounding box, computed per axis. It is the
// zero vector for an empty set.
func (meta MetaData) Center() r3.Vector {
	if meta.count == 0 {
		return r3.Vector{}
	}
	return r3.Vector{
		X: (meta.MaxX + meta.MinX) / 2,
		Y: (meta.MaxY + meta.MinY) / 2,
		Z: (meta.MaxZ + meta.MinZ) / 2,
	}
}

// Extent is the size of the bounding box along each axis.
func (meta MetaData) Extent() r3.Vector {
	if meta.count == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: meta.MaxX - meta.MinX, Y: meta.MaxY - meta.MinY, Z: meta.MaxZ - meta.MinZ}
}
