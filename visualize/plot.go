package visualize

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/voxelops/voxel"
)

var axisNames = [3]string{"row", "column", "depth"}

// MaxProjection collapses g along axis (0 rows, 1 columns, 2 depth) by taking
// the maximum. The result's rows and columns are the two remaining axes in
// order.
func MaxProjection(g *voxel.Grid, axis int) (*mat.Dense, error) {
	if axis < 0 || axis > 2 {
		return nil, errors.Errorf("projection axis must be 0, 1 or 2, got %d", axis)
	}
	dims := g.Dims()
	extents := dims.Slice()
	var keep []int
	for i := range extents {
		if i != axis {
			keep = append(keep, i)
		}
	}
	out := mat.NewDense(extents[keep[0]], extents[keep[1]], nil)
	seen := mat.NewDense(extents[keep[0]], extents[keep[1]], nil)
	var idx [3]int
	for idx[0] = 0; idx[0] < dims.H; idx[0]++ {
		for idx[1] = 0; idx[1] < dims.W; idx[1]++ {
			for idx[2] = 0; idx[2] < dims.D; idx[2]++ {
				r, c := idx[keep[0]], idx[keep[1]]
				v := g.At(idx[0], idx[1], idx[2])
				if seen.At(r, c) == 0 || v > out.At(r, c) {
					out.Set(r, c, v)
					seen.Set(r, c, 1)
				}
			}
		}
	}
	return out, nil
}

// projectionGrid adapts a projection to plotter.GridXYZ with matrix row 0 at
// the top of the image.
type projectionGrid struct {
	m *mat.Dense
}

func (p projectionGrid) Dims() (c, r int) {
	rows, cols := p.m.Dims()
	return cols, rows
}

func (p projectionGrid) Z(c, r int) float64 {
	rows, _ := p.m.Dims()
	return p.m.At(rows-1-r, c)
}

func (p projectionGrid) X(c int) float64 {
	return float64(c)
}

func (p projectionGrid) Y(r int) float64 {
	return float64(r)
}

// SaveProjection renders the max projection of g along axis as a heat map
// and saves it to path. The image format follows the file extension.
func SaveProjection(g *voxel.Grid, axis int, path string) error {
	proj, err := MaxProjection(g, axis)
	if err != nil {
		return err
	}
	grid := projectionGrid{m: proj}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("max projection along %s, grid %v", axisNames[axis], g.Dims())
	cols, rows := grid.Dims()
	others := make([]string, 0, 2)
	for i, name := range axisNames {
		if i != axis {
			others = append(others, name)
		}
	}
	p.X.Label.Text = others[1]
	p.Y.Label.Text = others[0]
	p.BackgroundColor = color.White

	heat := plotter.NewHeatMap(grid, palette.Heat(32, 1))
	// a flat image has no range to spread the palette over
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}
	p.Add(heat)
	p.X.Min, p.X.Max = -0.5, float64(cols)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(rows)-0.5

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving projection to %q", path)
	}
	return nil
}
