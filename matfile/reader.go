package matfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Open reads the MAT-file at path.
func Open(path string) (f *File, err error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	f, err = Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return f, nil
}

// Read decodes a level 5 MAT-file from r.
func Read(r io.Reader) (*File, error) {
	in := bufio.NewReader(r)
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(in, header); err != nil {
		return nil, errors.Wrap(err, "reading MAT-file header")
	}
	if bytes.HasPrefix(header, []byte("MATLAB 7.3")) {
		return nil, errors.New("MAT-file version 7.3 (HDF5) is not supported; save with -v7 or older")
	}

	var order binary.ByteOrder
	switch string(header[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return nil, errors.Errorf("not a level 5 MAT-file: endian indicator %q", header[126:128])
	}
	if v := order.Uint16(header[124:126]); v != version5 {
		return nil, errors.Errorf("unsupported MAT-file version %#04x", v)
	}

	f := &File{
		Description: string(bytes.TrimRight(header[:headerTextLen], " \x00")),
		BigEndian:   order == binary.BigEndian,
		arrays:      map[string]*Array{},
		unsupported: map[string]Class{},
	}
	for {
		typ, data, err := readElement(in, order)
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		if err := f.decodeTopLevel(typ, data, order); err != nil {
			return nil, err
		}
	}
}

func (f *File) decodeTopLevel(typ dataType, data []byte, order binary.ByteOrder) error {
	switch typ {
	case miCompressed:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(err, "opening compressed element")
		}
		inflated, err := io.ReadAll(zr)
		if err != nil {
			return multierr.Combine(errors.Wrap(err, "inflating compressed element"), zr.Close())
		}
		if err := zr.Close(); err != nil {
			return err
		}
		inner := bytes.NewReader(inflated)
		for inner.Len() > 0 {
			innerTyp, innerData, err := readElement(inner, order)
			if err != nil {
				return errors.Wrap(err, "reading compressed element")
			}
			if err := f.decodeTopLevel(innerTyp, innerData, order); err != nil {
				return err
			}
		}
		return nil
	case miMatrix:
		return f.decodeMatrix(data, order)
	default:
		// MATLAB only writes matrices at the top level; anything else is
		// tolerated and ignored.
		return nil
	}
}

func (f *File) decodeMatrix(data []byte, order binary.ByteOrder) error {
	// an empty matrix element carries no flags, dims or name
	if len(data) == 0 {
		return nil
	}
	r := bytes.NewReader(data)

	typ, flags, err := readElement(r, order)
	if err != nil {
		return errors.Wrap(err, "reading array flags")
	}
	if typ != miUint32 || len(flags) != 8 {
		return errors.Errorf("malformed array flags element (type %d, %d bytes)", typ, len(flags))
	}
	flagWord := order.Uint32(flags[:4])
	class := Class(flagWord & 0xff)
	flagBits := (flagWord >> 8) & 0xff

	typ, dimBytes, err := readElement(r, order)
	if err != nil {
		return errors.Wrap(err, "reading array dimensions")
	}
	if typ != miInt32 || len(dimBytes)%4 != 0 {
		return errors.Errorf("malformed dimensions element (type %d, %d bytes)", typ, len(dimBytes))
	}
	dims := make([]int, len(dimBytes)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(dimBytes[i*4:])))
	}

	typ, nameBytes, err := readElement(r, order)
	if err != nil {
		return errors.Wrap(err, "reading array name")
	}
	if typ != miInt8 && typ != miUint8 && typ != miUTF8 {
		return errors.Errorf("malformed array name element (type %d)", typ)
	}
	name := string(nameBytes)

	if !class.Numeric() {
		f.addUnsupported(name, class)
		return nil
	}

	typ, realPart, err := readElement(r, order)
	if err != nil {
		return errors.Wrapf(err, "reading real part of %q", name)
	}
	values, err := decodeNumeric(typ, realPart, order)
	if err != nil {
		return errors.Wrapf(err, "decoding %q", name)
	}
	n, err := numElements(dims)
	if err != nil {
		return errors.Wrapf(err, "array %q", name)
	}
	if n != len(values) {
		return errors.Errorf("array %q has dims %v (%d elements) but %d values", name, dims, n, len(values))
	}
	// an imaginary part, if present, follows and is dropped
	f.add(&Array{
		Name:    name,
		Class:   class,
		Logical: flagBits&flagLogical != 0,
		Dims:    dims,
		Data:    values,
	})
	return nil
}

// readElement reads one data element, handling the small element format and
// skipping padding up to the next 8 byte boundary. It returns io.EOF only if
// no bytes of a new element could be read.
func readElement(r io.Reader, order binary.ByteOrder) (dataType, []byte, error) {
	var tag [8]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil, errors.New("truncated element tag")
		}
		return 0, nil, err
	}
	first := order.Uint32(tag[:4])
	if small := first >> 16; small != 0 {
		if small > 4 {
			return 0, nil, errors.Errorf("small element claims %d bytes", small)
		}
		typ := dataType(first & 0xffff)
		return typ, append([]byte(nil), tag[4:4+small]...), nil
	}

	typ := dataType(first)
	n := order.Uint32(tag[4:])
	if n > maxElementSize {
		return 0, nil, errors.Errorf("element of %d bytes exceeds limit", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, errors.Wrapf(unexpected(err), "reading %d byte element", n)
	}
	// compressed elements are not padded
	if typ != miCompressed {
		if pad := (8 - n%8) % 8; pad != 0 {
			var skip [8]byte
			if _, err := io.ReadFull(r, skip[:pad]); err != nil && !errors.Is(err, io.EOF) {
				return 0, nil, errors.Wrap(unexpected(err), "reading element padding")
			}
		}
	}
	return typ, data, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func decodeNumeric(typ dataType, data []byte, order binary.ByteOrder) ([]float64, error) {
	size := typ.size()
	if size == 0 {
		return nil, errors.Errorf("data type %d is not numeric", typ)
	}
	if len(data)%size != 0 {
		return nil, errors.Errorf("%d bytes is not a multiple of the %d byte value size", len(data), size)
	}
	out := make([]float64, len(data)/size)
	for i := range out {
		b := data[i*size:]
		switch typ {
		case miInt8:
			out[i] = float64(int8(b[0]))
		case miUint8:
			out[i] = float64(b[0])
		case miInt16:
			out[i] = float64(int16(order.Uint16(b)))
		case miUint16:
			out[i] = float64(order.Uint16(b))
		case miInt32:
			out[i] = float64(int32(order.Uint32(b)))
		case miUint32:
			out[i] = float64(order.Uint32(b))
		case miSingle:
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case miDouble:
			out[i] = math.Float64frombits(order.Uint64(b))
		case miInt64:
			out[i] = float64(int64(order.Uint64(b)))
		case miUint64:
			out[i] = float64(order.Uint64(b))
		case miMatrix, miCompressed, miUTF8, miUTF16, miUTF32:
			return nil, errors.Errorf("data type %d is not numeric", typ)
		}
	}
	return out, nil
}
