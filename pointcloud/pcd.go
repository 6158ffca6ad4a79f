package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = iota
	// PCDBinary binary format for pcd.
	PCDBinary
	// PCDCompressed binary compressed format for pcd. It can be recognized but
	// not read or written.
	PCDCompressed
)

const pcdCommentChar = "#"

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

// WriteVertsPCD writes verts as an unorganized x y z float32 point cloud.
func WriteVertsPCD(verts []r3.Vector, out io.Writer, outputType PCDType) error {
	var dataLine string
	switch outputType {
	case PCDAscii:
		dataLine = "ascii"
	case PCDBinary:
		dataLine = "binary"
	case PCDCompressed:
		return errors.New("compressed PCD not supported")
	default:
		return errors.Errorf("unknown PCD type %d", outputType)
	}

	w := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(w, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA %s\n", len(verts), len(verts), dataLine); err != nil {
		return err
	}

	buf := make([]byte, 12)
	for _, v := range verts {
		var err error
		switch outputType {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(v.Z)))
			_, err = w.Write(buf)
		case PCDAscii, PCDCompressed:
			_, err = fmt.Fprintf(w, "%s %s %s\n", formatFloat32(v.X), formatFloat32(v.Y), formatFloat32(v.Z))
		}
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatFloat32(f float64) string {
	return strconv.FormatFloat(float64(float32(f)), 'g', -1, 32)
}

type pcdHeader struct {
	fields int
	size   []uint64
	width  uint64
	height uint64
	points uint64
	data   PCDType
}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	tokens := strings.Fields(value)
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %s", name, line)
	}

	var err error
	switch name {
	case "VERSION":
		if value != ".7" && value != "0.7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		if strings.Join(tokens, " ") != "x y z" {
			return errors.Errorf("unsupported pcd fields %s", value)
		}
		header.fields = len(tokens)
	case "SIZE":
		if len(tokens) != header.fields {
			return errors.New("unexpected number of fields in SIZE line")
		}
		header.size = make([]uint64, len(tokens))
		for i, token := range tokens {
			header.size[i], err = strconv.ParseUint(token, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid SIZE field %s", token)
			}
			if header.size[i] != 4 && header.size[i] != 8 {
				return errors.Errorf("unsupported SIZE %d", header.size[i])
			}
		}
	case "TYPE":
		if len(tokens) != header.fields {
			return errors.New("unexpected number of fields in TYPE line")
		}
		for _, token := range tokens {
			if token != "F" {
				return errors.Errorf("unsupported TYPE %s, only F is read", token)
			}
		}
	case "COUNT":
		if len(tokens) != header.fields {
			return errors.New("unexpected number of fields in COUNT line")
		}
		for _, token := range tokens {
			if token != "1" {
				return errors.Errorf("unsupported COUNT %s", token)
			}
		}
	case "WIDTH":
		header.width, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid WIDTH field %s", value)
		}
	case "HEIGHT":
		header.height, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid HEIGHT field %s", value)
		}
	case "VIEWPOINT":
		// verts carry no pose, so the viewpoint is checked but ignored
		if len(tokens) != 7 {
			return errors.Errorf("unexpected number of fields in VIEWPOINT line. Expected 7, got %d", len(tokens))
		}
	case "POINTS":
		header.points, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid POINTS field %s", value)
		}
		if header.height != 0 && header.width > math.MaxUint64/header.height {
			return errors.Errorf("WIDTH*HEIGHT overflows: %d*%d", header.width, header.height)
		}
		if header.points > math.MaxInt {
			return errors.Errorf("POINTS field %d is too large", header.points)
		}
		if header.points != header.width*header.height {
			return errors.Errorf("POINTS field %d does not match WIDTH*HEIGHT %d", header.points, header.width*header.height)
		}
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		case "binary_compressed":
			header.data = PCDCompressed
		default:
			return errors.Errorf("unsupported DATA %s", value)
		}
	}
	return nil
}

// ReadVertsPCD reads the x y z fields of an ascii or binary PCD file.
func ReadVertsPCD(inRaw io.Reader) ([]r3.Vector, error) {
	header := pcdHeader{}
	in := bufio.NewReader(inRaw)
	headerLineCount := 0
	for headerLineCount < len(pcdHeaderFields) {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "error reading header line %d", headerLineCount)
		}
		line, _, _ = strings.Cut(line, pcdCommentChar)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, headerLineCount, &header); err != nil {
			return nil, err
		}
		headerLineCount++
	}
	switch header.data {
	case PCDAscii:
		return readPCDAscii(in, header)
	case PCDBinary:
		return readPCDBinary(in, header)
	case PCDCompressed:
		return nil, errors.New("compressed pcd not supported")
	default:
		return nil, errors.Errorf("unsupported pcd data type %v", header.data)
	}
}

// maxPreallocPoints bounds the capacity taken from an untrusted POINTS field;
// larger clouds grow through append.
const maxPreallocPoints = 1 << 20

func readPCDAscii(in *bufio.Reader, header pcdHeader) ([]r3.Vector, error) {
	verts := make([]r3.Vector, 0, min(header.points, maxPreallocPoints))
	for i := 0; i < int(header.points); i++ {
		line, err := in.ReadString('\n')
		// the last point may lack a trailing newline
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, errors.Wrapf(err, "reading point %d", i)
		}
		tokens := strings.Fields(line)
		if len(tokens) != header.fields {
			return nil, errors.Errorf("unexpected number of fields in point %d", i)
		}
		var point [3]float64
		for j, token := range tokens {
			point[j], err = strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid point %d field %s", i, token)
			}
		}
		verts = append(verts, r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	}
	return verts, nil
}

func readPCDBinary(in *bufio.Reader, header pcdHeader) ([]r3.Vector, error) {
	verts := make([]r3.Vector, 0, min(header.points, maxPreallocPoints))
	buf := make([]byte, 8)
	for i := 0; i < int(header.points); i++ {
		var point [3]float64
		for j := 0; j < header.fields; j++ {
			size := header.size[j]
			if _, err := io.ReadFull(in, buf[:size]); err != nil {
				return nil, errors.Wrapf(err, "reading point %d", i)
			}
			if size == 4 {
				point[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
			} else {
				point[j] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
			}
		}
		verts = append(verts, r3.Vector{X: point[0], Y: point[1], Z: point[2]})
	}
	return verts, nil
}
