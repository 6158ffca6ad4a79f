// Package transform maps 2D image coordinates between image sizes.
package transform

import (
	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

// ApplyCoords rescales coords for an image resized to newW by newH. X is
// multiplied by newW/N and Y by newH/N, where N is the number of points, not
// an original image dimension. A new slice is returned.
func ApplyCoords(coords []r2.Point, newW, newH int) []r2.Point {
	if len(coords) == 0 {
		return []r2.Point{}
	}
	n := float64(len(coords))
	scaleX := float64(newW) / n
	scaleY := float64(newH) / n
	return lo.Map(coords, func(p r2.Point, _ int) r2.Point {
		return r2.Point{X: p.X * scaleX, Y: p.Y * scaleY}
	})
}
