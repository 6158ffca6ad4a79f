// Package matfile reads and writes MATLAB level 5 MAT-files (versions 5
// through 7.2). Only the real part of numeric and logical arrays is decoded;
// other variables are listed but cannot be loaded. Version 7.3 files are HDF5
// containers and are rejected.
package matfile

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

const (
	headerLen     = 128
	headerTextLen = 116
	version5      = 0x0100
	// elements larger than this are assumed to be corrupt rather than allocated
	maxElementSize = 1 << 31
)

// dataType is the storage type of a data element.
type dataType uint32

const (
	miInt8       dataType = 1
	miUint8      dataType = 2
	miInt16      dataType = 3
	miUint16     dataType = 4
	miInt32      dataType = 5
	miUint32     dataType = 6
	miSingle     dataType = 7
	miDouble     dataType = 9
	miInt64      dataType = 12
	miUint64     dataType = 13
	miMatrix     dataType = 14
	miCompressed dataType = 15
	miUTF8       dataType = 16
	miUTF16      dataType = 17
	miUTF32      dataType = 18
)

// size returns the byte width of one value of a numeric data type, or 0 if
// the type is not numeric.
func (t dataType) size() int {
	switch t {
	case miInt8, miUint8:
		return 1
	case miInt16, miUint16:
		return 2
	case miInt32, miUint32, miSingle:
		return 4
	case miDouble, miInt64, miUint64:
		return 8
	default:
		return 0
	}
}

// Class is the MATLAB array class stored in an array's flags.
type Class uint8

// Array classes.
const (
	ClassCell   Class = 1
	ClassStruct Class = 2
	ClassObject Class = 3
	ClassChar   Class = 4
	ClassSparse Class = 5
	ClassDouble Class = 6
	ClassSingle Class = 7
	ClassInt8   Class = 8
	ClassUint8  Class = 9
	ClassInt16  Class = 10
	ClassUint16 Class = 11
	ClassInt32  Class = 12
	ClassUint32 Class = 13
	ClassInt64  Class = 14
	ClassUint64 Class = 15
)

var classNames = map[Class]string{
	ClassCell:   "cell",
	ClassStruct: "struct",
	ClassObject: "object",
	ClassChar:   "char",
	ClassSparse: "sparse",
	ClassDouble: "double",
	ClassSingle: "single",
	ClassInt8:   "int8",
	ClassUint8:  "uint8",
	ClassInt16:  "int16",
	ClassUint16: "uint16",
	ClassInt32:  "int32",
	ClassUint32: "uint32",
	ClassInt64:  "int64",
	ClassUint64: "uint64",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Numeric reports whether arrays of this class can be decoded into an Array.
func (c Class) Numeric() bool {
	return c >= ClassDouble && c <= ClassUint64
}

// array flag bits, found in the second byte of the flags word.
const (
	flagComplex = 0x08
	flagGlobal  = 0x04
	flagLogical = 0x02
)

// Array is a decoded numeric MAT variable. Data holds the real part in
// MATLAB's column-major order, converted to float64.
type Array struct {
	Name    string
	Class   Class
	Logical bool
	Dims    []int
	Data    []float64
}

// NewArray returns a double-class array after checking that data holds
// exactly one value per element of dims.
func NewArray(name string, dims []int, data []float64) (*Array, error) {
	if len(dims) == 0 {
		return nil, errors.Errorf("array %q needs at least one dimension", name)
	}
	n, err := numElements(dims)
	if err != nil {
		return nil, errors.Wrapf(err, "array %q", name)
	}
	if n != len(data) {
		return nil, errors.Errorf("array %q has dims %v (%d elements) but %d values", name, dims, n, len(data))
	}
	return &Array{
		Name:  name,
		Class: ClassDouble,
		Dims:  append([]int(nil), dims...),
		Data:  append([]float64(nil), data...),
	}, nil
}

// At returns the value at the given subscript, interpreted column-major.
// It panics if the subscript has the wrong rank or is out of range.
func (a *Array) At(idx ...int) float64 {
	if len(idx) != len(a.Dims) {
		panic(fmt.Sprintf("matfile: subscript rank %d does not match array rank %d", len(idx), len(a.Dims)))
	}
	offset := 0
	stride := 1
	for i, d := range a.Dims {
		if idx[i] < 0 || idx[i] >= d {
			panic(fmt.Sprintf("matfile: index %d out of range [0, %d) on axis %d", idx[i], d, i))
		}
		offset += idx[i] * stride
		stride *= d
	}
	return a.Data[offset]
}

func numElements(dims []int) (int, error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0, errors.Errorf("negative dimension in %v", dims)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, errors.Errorf("dimensions %v overflow the element count", dims)
		}
		n *= d
	}
	return n, nil
}

// File is the set of variables read from a MAT-file.
type File struct {
	// Description is the descriptive text at the start of the header.
	Description string
	// BigEndian is set when the file was written in big-endian byte order.
	BigEndian bool

	arrays      map[string]*Array
	unsupported map[string]Class
	order       []string
}

// Names returns the names of all variables in the file, in file order,
// including those that cannot be loaded.
func (f *File) Names() []string {
	return append([]string(nil), f.order...)
}

// Variable returns the numeric variable with the given name.
func (f *File) Variable(name string) (*Array, error) {
	if arr, ok := f.arrays[name]; ok {
		return arr, nil
	}
	if class, ok := f.unsupported[name]; ok {
		return nil, errors.Errorf("variable %q has unsupported class %s", name, class)
	}
	names := f.Names()
	sort.Strings(names)
	return nil, errors.Errorf("variable %q not found; have %v", name, names)
}

func (f *File) add(arr *Array) {
	if _, ok := f.arrays[arr.Name]; !ok {
		if _, ok := f.unsupported[arr.Name]; !ok {
			f.order = append(f.order, arr.Name)
		}
	}
	f.arrays[arr.Name] = arr
}

func (f *File) addUnsupported(name string, class Class) {
	if _, ok := f.arrays[name]; !ok {
		if _, ok := f.unsupported[name]; !ok {
			f.order = append(f.order, name)
		}
	}
	f.unsupported[name] = class
}
