// Package mesh counts the records of line-oriented text mesh files such as
// Wavefront OBJ.
package mesh

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	// VertexMarker starts a vertex line. Normal ("vn") and texture ("vt")
	// lines start with it too and are counted as vertices.
	VertexMarker = 'v'
	// FaceMarker starts a face line.
	FaceMarker = 'f'
)

// CountLines returns the number of lines read from r whose first byte is marker.
func CountLines(r io.Reader, marker byte) (int, error) {
	in := bufio.NewReader(r)
	count := 0
	atLineStart := true
	for {
		b, err := in.ReadByte()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
		if atLineStart && b == marker {
			count++
		}
		atLineStart = b == '\n'
	}
}

// CountFileLines is CountLines over the file at path.
func CountFileLines(path string, marker byte) (count int, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	count, err = CountLines(f, marker)
	if err != nil {
		return 0, errors.Wrapf(err, "counting lines of %q", path)
	}
	return count, nil
}

// NumVertices counts the vertex lines of the mesh at path.
func NumVertices(path string) (int, error) {
	return CountFileLines(path, VertexMarker)
}

// NumFaces counts the face lines of the mesh at path.
func NumFaces(path string) (int, error) {
	return CountFileLines(path, FaceMarker)
}
