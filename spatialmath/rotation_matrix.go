// Package spatialmath holds the rigid transforms applied to point sets.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/voxelops/utils"
)

// RotationMatrix is a 3x3 matrix in row-major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewIdentityRotationMatrix returns the rotation that does nothing.
func NewIdentityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{mat: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewRotationMatrix creates a rotation matrix from 9 row-major values.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, utils.NewShapeError("rotation", "9 values", len(m))
	}
	var rm RotationMatrix
	copy(rm.mat[:], m)
	return &rm, nil
}

// RotationMatrixFromMat copies a gonum matrix, which must be exactly 3x3.
func RotationMatrixFromMat(m mat.Matrix) (*RotationMatrix, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return nil, utils.NewShapeError("rotation", "3x3", r, c)
	}
	var rm RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rm.mat[3*i+j] = m.At(i, j)
		}
	}
	return &rm, nil
}

// QuatToRotationMatrix converts a unit quaternion to a rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{mat: [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}

// NewRotationMatrixFromAxisAngle returns the rotation of theta radians about
// axis, counterclockwise when looking down the axis towards the origin. The
// axis need not be unit length but must not be zero.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func NewRotationMatrixFromAxisAngle(axis r3.Vector, theta float64) (*RotationMatrix, error) {
	norm := axis.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, errors.Errorf("rotation axis %v must be a finite non-zero vector", axis)
	}
	unit := axis.Mul(1 / norm)
	sinA := math.Sin(theta / 2)
	q := quat.Number{Real: math.Cos(theta / 2), Imag: unit.X * sinA, Jmag: unit.Y * sinA, Kmag: unit.Z * sinA}
	return QuatToRotationMatrix(q), nil
}

// At returns the value in the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the given row as a vector.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Mul returns rm·v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// Dense returns a copy of the matrix as a gonum matrix.
func (rm *RotationMatrix) Dense() *mat.Dense {
	return mat.NewDense(3, 3, append([]float64(nil), rm.mat[:]...))
}

func (rm *RotationMatrix) String() string {
	return fmt.Sprintf("[%v %v %v]", rm.mat[0:3], rm.mat[3:6], rm.mat[6:9])
}
