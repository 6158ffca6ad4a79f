package transform

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestApplyCoords(t *testing.T) {
	in := []r2.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	// N = 2, so X scales by 10/2 and Y by 4/2
	out := ApplyCoords(in, 10, 4)
	test.That(t, out, test.ShouldResemble, []r2.Point{{X: 5, Y: 4}, {X: 15, Y: 8}})
	test.That(t, in, test.ShouldResemble, []r2.Point{{X: 1, Y: 2}, {X: 3, Y: 4}})

	out = ApplyCoords([]r2.Point{{X: 2, Y: 3}, {X: 0, Y: 1}, {X: -1, Y: 6}, {X: 4, Y: 0}}, 2, 8)
	test.That(t, out, test.ShouldResemble, []r2.Point{{X: 1, Y: 6}, {X: 0, Y: 2}, {X: -0.5, Y: 12}, {X: 2, Y: 0}})

	test.That(t, ApplyCoords(nil, 5, 5), test.ShouldResemble, []r2.Point{})
}
