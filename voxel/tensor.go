package voxel

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorgonia.org/tensor"

	"go.viam.com/voxelops/utils"
)

// Tensor returns the grid as a float32 tensor of shape (H, W, D), the layout
// model inputs expect.
func (g *Grid) Tensor() *tensor.Dense {
	backing := lo.Map(g.data, func(v float64, _ int) float32 {
		return float32(v)
	})
	return tensor.New(tensor.WithShape(g.dims.H, g.dims.W, g.dims.D), tensor.WithBacking(backing))
}

// NewGridFromTensor copies a rank 3 numeric tensor into a grid.
func NewGridFromTensor(t *tensor.Dense) (*Grid, error) {
	shape := t.Shape()
	if len(shape) != 3 {
		return nil, utils.NewShapeError("tensor", "rank 3", shape...)
	}
	dims := dimsFromSlice(shape)
	if err := dims.Validate(); err != nil {
		return nil, err
	}

	if !t.IsView() {
		switch data := t.Data().(type) {
		case []float64:
			return NewGridFromData(dims, data)
		case []float32:
			return NewGridFromData(dims, lo.Map(data, func(v float32, _ int) float64 {
				return float64(v)
			}))
		}
	}

	// views and other element types go through At
	g := &Grid{dims: dims, data: make([]float64, dims.Len())}
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				v, err := t.At(y, x, z)
				if err != nil {
					return nil, err
				}
				f, err := toFloat64(v)
				if err != nil {
					return nil, err
				}
				g.Set(y, x, z, f)
			}
		}
	}
	return g, nil
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.Wrap(utils.NewUnexpectedTypeError(float64(0), v), "tensor element")
	}
}
