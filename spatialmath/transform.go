package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/voxelops/utils"
)

// TransformVerts returns each point p of verts moved to rot·p + trans. A nil
// rot skips the rotation and a nil trans skips the translation; with both nil
// the result is a copy. rot must be 3x3 and trans must hold 3 values, else a
// ShapeError is returned. verts is never modified.
func TransformVerts(verts []r3.Vector, rot mat.Matrix, trans []float64) ([]r3.Vector, error) {
	var rm *RotationMatrix
	if rot != nil {
		var err error
		if rm, err = RotationMatrixFromMat(rot); err != nil {
			return nil, err
		}
	}
	var t r3.Vector
	if trans != nil {
		if len(trans) != 3 {
			return nil, utils.NewShapeError("translation", "3", len(trans))
		}
		t = r3.Vector{X: trans[0], Y: trans[1], Z: trans[2]}
	}

	out := make([]r3.Vector, len(verts))
	if len(verts) == 0 {
		return out, nil
	}
	if rm == nil {
		for i, v := range verts {
			out[i] = v.Add(t)
		}
		return out, nil
	}

	// rows of P are points, so P·Rᵀ rotates them all at once
	points := mat.NewDense(len(verts), 3, nil)
	for i, v := range verts {
		points.SetRow(i, []float64{v.X, v.Y, v.Z})
	}
	var rotated mat.Dense
	rotated.Mul(points, rm.Dense().T())
	for i := range out {
		out[i] = r3.Vector{X: rotated.At(i, 0), Y: rotated.At(i, 1), Z: rotated.At(i, 2)}.Add(t)
	}
	return out, nil
}
