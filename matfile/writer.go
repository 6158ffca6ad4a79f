package matfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// WriteFile writes the arrays to a new MAT-file at path. When compress is set
// each array is stored as a zlib compressed element, as MATLAB's -v7 does.
func WriteFile(path string, compress bool, arrays ...*Array) (err error) {
	//nolint:gosec
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	return Write(file, compress, arrays...)
}

// Write encodes the arrays as a little-endian level 5 MAT-file. Every array
// is stored with class double regardless of its Class field.
func Write(w io.Writer, compress bool, arrays ...*Array) error {
	return write(w, binary.LittleEndian, compress, arrays...)
}

func write(w io.Writer, order binary.ByteOrder, compress bool, arrays ...*Array) error {
	if _, err := w.Write(encodeHeader(order)); err != nil {
		return err
	}
	for _, arr := range arrays {
		dims := append([]int(nil), arr.Dims...)
		// MATLAB arrays always have at least two dimensions
		for len(dims) < 2 {
			dims = append(dims, 1)
		}
		n, err := numElements(dims)
		if err != nil {
			return errors.Wrapf(err, "array %q", arr.Name)
		}
		if n != len(arr.Data) {
			return errors.Errorf("array %q has dims %v (%d elements) but %d values", arr.Name, dims, n, len(arr.Data))
		}
		payload := make([]byte, 8*len(arr.Data))
		for i, v := range arr.Data {
			order.PutUint64(payload[i*8:], math.Float64bits(v))
		}
		elem := encodeMatrix(order, arr.Name, ClassDouble, dims, miDouble, payload)
		if compress {
			if elem, err = compressElement(order, elem); err != nil {
				return errors.Wrapf(err, "compressing %q", arr.Name)
			}
		}
		if _, err := w.Write(elem); err != nil {
			return err
		}
	}
	return nil
}

func encodeHeader(order binary.ByteOrder) []byte {
	header := make([]byte, headerLen)
	text := fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: %s, Created on: %s, by voxelops",
		runtime.GOOS, time.Now().UTC().Format("Mon Jan 2 15:04:05 2006"))
	copy(header, bytes.Repeat([]byte(" "), headerTextLen))
	copy(header[:headerTextLen], text)
	// bytes 116-123 are the subsystem data offset, left as zero
	order.PutUint16(header[124:], version5)
	order.PutUint16(header[126:], uint16('M')<<8|uint16('I'))
	return header
}

// encodeMatrix builds a complete miMATRIX element. payload is the real part,
// already encoded as elemType values.
func encodeMatrix(order binary.ByteOrder, name string, class Class, dims []int, elemType dataType, payload []byte) []byte {
	var body bytes.Buffer

	flags := make([]byte, 8)
	order.PutUint32(flags, uint32(class))
	writeElement(&body, order, miUint32, flags)

	dimBytes := make([]byte, 4*len(dims))
	for i, d := range dims {
		order.PutUint32(dimBytes[i*4:], uint32(int32(d)))
	}
	writeElement(&body, order, miInt32, dimBytes)
	writeElement(&body, order, miInt8, []byte(name))
	writeElement(&body, order, elemType, payload)

	var out bytes.Buffer
	writeTag(&out, order, miMatrix, body.Len())
	out.Write(body.Bytes())
	return out.Bytes()
}

func compressElement(order binary.ByteOrder, elem []byte) ([]byte, error) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(elem); err != nil {
		return nil, multierr.Combine(err, zw.Close())
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	writeTag(&out, order, miCompressed, compressed.Len())
	out.Write(compressed.Bytes())
	return out.Bytes(), nil
}

// writeElement appends a data element, using the small element format for
// 1 to 4 bytes of data and padding everything else to 8 bytes.
func writeElement(buf *bytes.Buffer, order binary.ByteOrder, typ dataType, data []byte) {
	if n := len(data); n > 0 && n <= 4 {
		var tag [8]byte
		order.PutUint32(tag[:4], uint32(n)<<16|uint32(typ))
		copy(tag[4:], data)
		buf.Write(tag[:])
		return
	}
	writeTag(buf, order, typ, len(data))
	buf.Write(data)
	if pad := (8 - len(data)%8) % 8; pad != 0 {
		buf.Write(make([]byte, pad))
	}
}

func writeTag(buf *bytes.Buffer, order binary.ByteOrder, typ dataType, n int) {
	var tag [8]byte
	order.PutUint32(tag[:4], uint32(typ))
	order.PutUint32(tag[4:], uint32(n))
	buf.Write(tag[:])
}
