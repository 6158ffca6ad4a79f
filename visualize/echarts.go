// Package visualize renders voxel grids for inspection: an interactive 3D
// scatter page and flat max-intensity projections.
package visualize

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"go.viam.com/voxelops/voxel"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// RenderHTML writes a standalone HTML page with a rotatable 3D scatter of the
// occupied cells of g. Points are placed at (column, row, depth) and colored
// by cell value.
func RenderHTML(w io.Writer, g *voxel.Grid, title string) error {
	dims := g.Dims()
	data := make([]opts.Chart3DData, 0, g.Occupied())
	minV, maxV := 0.0, 1.0
	first := true
	for y := 0; y < dims.H; y++ {
		for x := 0; x < dims.W; x++ {
			for z := 0; z < dims.D; z++ {
				v := g.At(y, x, z)
				if v <= 0 {
					continue
				}
				if first || v < minV {
					minV = v
				}
				if first || v > maxV {
					maxV = v
				}
				first = false
				data = append(data, opts.Chart3DData{Value: []interface{}{x, y, z, v}})
			}
		}
	}
	if maxV <= minV {
		maxV = minV + 1
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("grid=%v occupied=%d", dims, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "column", Min: 0, Max: dims.W - 1}),
		// rows grow downwards in image space
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "row", Min: 0, Max: dims.H - 1}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "depth", Min: 0, Max: dims.D - 1}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minV),
			Max:        float32(maxV),
			Dimension:  "3",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("voxels", data)
	return scatter.Render(w)
}
