package pointcloud

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestMetaData(t *testing.T) {
	meta := NewMetaData()
	test.That(t, meta.Size(), test.ShouldEqual, 0)
	test.That(t, meta.Center(), test.ShouldResemble, r3.Vector{})
	test.That(t, meta.Extent(), test.ShouldResemble, r3.Vector{})

	meta.Merge(r3.Vector{X: 1, Y: -2, Z: 3})
	test.That(t, meta.Size(), test.ShouldEqual, 1)
	test.That(t, meta.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: -2, Z: 3})

	meta = MetaDataOf([]r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 4, Y: 1, Z: -6},
		{X: 1, Y: 9, Z: 2},
	})
	test.That(t, meta.Size(), test.ShouldEqual, 3)
	test.That(t, meta.MinX, test.ShouldEqual, 0.0)
	test.That(t, meta.MaxX, test.ShouldEqual, 4.0)
	test.That(t, meta.MinY, test.ShouldEqual, 0.0)
	test.That(t, meta.MaxY, test.ShouldEqual, 9.0)
	test.That(t, meta.MinZ, test.ShouldEqual, -6.0)
	test.That(t, meta.MaxZ, test.ShouldEqual, 2.0)
	// per axis box center, not the centroid
	test.That(t, meta.Center(), test.ShouldResemble, r3.Vector{X: 2, Y: 4.5, Z: -2})
	test.That(t, meta.Extent(), test.ShouldResemble, r3.Vector{X: 4, Y: 9, Z: 8})
}

func testVerts() []r3.Vector {
	return []r3.Vector{
		{X: -0.5, Y: 0.25, Z: 0},
		{X: 0.125, Y: -0.375, Z: 0.5},
		{X: 1, Y: 2, Z: -3},
	}
}

func TestPCDRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		typ  PCDType
	}{
		{"ascii", PCDAscii},
		{"binary", PCDBinary},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			test.That(t, WriteVertsPCD(testVerts(), &buf, tc.typ), test.ShouldBeNil)
			got, err := ReadVertsPCD(&buf)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got, test.ShouldResemble, testVerts())
		})
	}
}

func TestWritePCDHeader(t *testing.T) {
	var buf bytes.Buffer
	test.That(t, WriteVertsPCD(testVerts()[:1], &buf, PCDAscii), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH 1\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS 1\n"+
		"DATA ascii\n"+
		"-0.5 0.25 0\n")

	test.That(t, WriteVertsPCD(testVerts(), &buf, PCDCompressed), test.ShouldNotBeNil)
}

func TestReadPCD(t *testing.T) {
	header := "# written by hand\n" +
		"VERSION .7\n" +
		"FIELDS x y z\n" +
		"SIZE 4 4 4\n" +
		"TYPE F F F\n" +
		"COUNT 1 1 1\n" +
		"WIDTH 2\n" +
		"HEIGHT 1\n" +
		"VIEWPOINT 0 0 0 1 0 0 0\n" +
		"POINTS 2\n"

	got, err := ReadVertsPCD(strings.NewReader(header + "DATA ascii\n1 2 3\n-1 -2 -3"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: -1, Y: -2, Z: -3}})

	_, err = ReadVertsPCD(strings.NewReader(header + "DATA ascii\n1 2 3\n"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadVertsPCD(strings.NewReader(header + "DATA ascii\n1 2\n4 5 6\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unexpected number of fields")

	_, err = ReadVertsPCD(strings.NewReader(header + "DATA binary_compressed\n"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadVertsPCD(strings.NewReader(header + "DATA binary\n\x00\x00"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadVertsPCD(strings.NewReader(strings.Replace(header, "FIELDS x y z", "FIELDS x y z rgb", 1) + "DATA ascii\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported pcd fields")

	_, err = ReadVertsPCD(strings.NewReader(strings.Replace(header, "POINTS 2", "POINTS 3", 1) + "DATA ascii\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "does not match WIDTH*HEIGHT")

	_, err = ReadVertsPCD(strings.NewReader("VERSION .7\nWIDTH 1\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "supposed to start with FIELDS")
}

func TestReadPCDHugeHeader(t *testing.T) {
	huge := "VERSION .7\n" +
		"FIELDS x y z\n" +
		"SIZE 4 4 4\n" +
		"TYPE F F F\n" +
		"COUNT 1 1 1\n" +
		"WIDTH 1000000000000000000\n" +
		"HEIGHT 1\n" +
		"VIEWPOINT 0 0 0 1 0 0 0\n" +
		"POINTS 1000000000000000000\n"

	// the header promises far more points than the body holds
	_, err := ReadVertsPCD(strings.NewReader(huge + "DATA ascii\n1 2 3\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "reading point 1")

	_, err = ReadVertsPCD(strings.NewReader(huge + "DATA binary\n\x00\x00\x00\x00"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "reading point 0")

	// 2^63 * 2 wraps to 0
	wrapped := strings.NewReplacer(
		"WIDTH 1000000000000000000", "WIDTH 9223372036854775808",
		"HEIGHT 1", "HEIGHT 2",
		"POINTS 1000000000000000000", "POINTS 0",
	).Replace(huge)
	_, err = ReadVertsPCD(strings.NewReader(wrapped + "DATA ascii\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "overflows")
}
