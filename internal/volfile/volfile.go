// Package volfile reads the raw little-endian voxel volume file format
// consumed by cmd/labelcli: a small fixed header giving the grid
// dimensions and scalar element type, followed by one densely packed
// frame per time step, each in (x fastest, then y, then z) raster
// order — the same byte-slicing-over-encoding/binary style the teacher
// uses for its sensor packet headers (internal/lidar/parse/extract.go).
package volfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/voxellab/shapekit/internal/voxelstore"
)

// ScalarType identifies the on-disk element type of a volume file.
type ScalarType uint32

const (
	ScalarUint8 ScalarType = iota
	ScalarUint16
	ScalarFloat32
	ScalarFloat64
)

func (s ScalarType) size() (int, error) {
	switch s {
	case ScalarUint8:
		return 1, nil
	case ScalarUint16:
		return 2, nil
	case ScalarFloat32:
		return 4, nil
	case ScalarFloat64:
		return 8, nil
	default:
		return 0, fmt.Errorf("volfile: unknown scalar type %d", s)
	}
}

var magic = [4]byte{'S', 'V', 'O', 'X'}

const formatVersion uint32 = 1

// Header is the file's fixed-size preamble.
type Header struct {
	Width, Height, Depth int
	TimeSteps             int
	Scalar                ScalarType
}

// Load reads a full volume file from r and returns one voxelstore.Store
// per time step, wrapped in a Series in file order.
func Load(r io.Reader) (*voxelstore.Series, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	elemSize, err := hdr.Scalar.size()
	if err != nil {
		return nil, err
	}

	n := hdr.Width * hdr.Height * hdr.Depth
	frames := make([]voxelstore.Store, hdr.TimeSteps)
	buf := make([]byte, n*elemSize)
	for t := 0; t < hdr.TimeSteps; t++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("volfile: reading frame %d: %w", t, err)
		}
		frame, err := decodeFrame(hdr, buf)
		if err != nil {
			return nil, fmt.Errorf("volfile: decoding frame %d: %w", t, err)
		}
		frames[t] = frame
	}
	return &voxelstore.Series{Frames: frames}, nil
}

func readHeader(r io.Reader) (Header, error) {
	var raw [24]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, fmt.Errorf("volfile: reading header: %w", err)
	}
	if [4]byte{raw[0], raw[1], raw[2], raw[3]} != magic {
		return Header{}, fmt.Errorf("volfile: bad magic %q", raw[0:4])
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != formatVersion {
		return Header{}, fmt.Errorf("volfile: unsupported version %d", version)
	}
	hdr := Header{
		Width:     int(binary.LittleEndian.Uint32(raw[8:12])),
		Height:    int(binary.LittleEndian.Uint32(raw[12:16])),
		Depth:     int(binary.LittleEndian.Uint32(raw[16:20])),
		Scalar:    ScalarType(binary.LittleEndian.Uint32(raw[20:24])),
	}
	var tsBuf [4]byte
	if _, err := io.ReadFull(r, tsBuf[:]); err != nil {
		return Header{}, fmt.Errorf("volfile: reading time step count: %w", err)
	}
	hdr.TimeSteps = int(binary.LittleEndian.Uint32(tsBuf[:]))

	if hdr.Width <= 0 || hdr.Height <= 0 || hdr.Depth <= 0 || hdr.TimeSteps <= 0 {
		return Header{}, fmt.Errorf("volfile: non-positive dimension in header %+v", hdr)
	}
	return hdr, nil
}

func decodeFrame(hdr Header, buf []byte) (voxelstore.Store, error) {
	switch hdr.Scalar {
	case ScalarUint8:
		data := make([]uint8, len(buf))
		copy(data, buf)
		return voxelstore.NewGrid(hdr.Width, hdr.Height, hdr.Depth, data)
	case ScalarUint16:
		data := make([]uint16, len(buf)/2)
		for i := range data {
			data[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}
		return voxelstore.NewGrid(hdr.Width, hdr.Height, hdr.Depth, data)
	case ScalarFloat32:
		data := make([]float32, len(buf)/4)
		for i := range data {
			bits := binary.LittleEndian.Uint32(buf[i*4:])
			data[i] = math.Float32frombits(bits)
		}
		return voxelstore.NewGrid(hdr.Width, hdr.Height, hdr.Depth, data)
	case ScalarFloat64:
		data := make([]float64, len(buf)/8)
		for i := range data {
			bits := binary.LittleEndian.Uint64(buf[i*8:])
			data[i] = math.Float64frombits(bits)
		}
		return voxelstore.NewGrid(hdr.Width, hdr.Height, hdr.Depth, data)
	default:
		return nil, fmt.Errorf("volfile: unknown scalar type %d", hdr.Scalar)
	}
}

// WriteHeader writes a Header in the on-disk little-endian layout, for
// tests and for any tool that produces volume files (e.g. a format
// converter feeding cmd/labelcli).
func WriteHeader(w io.Writer, hdr Header) error {
	var raw [28]byte
	copy(raw[0:4], magic[:])
	binary.LittleEndian.PutUint32(raw[4:8], formatVersion)
	binary.LittleEndian.PutUint32(raw[8:12], uint32(hdr.Width))
	binary.LittleEndian.PutUint32(raw[12:16], uint32(hdr.Height))
	binary.LittleEndian.PutUint32(raw[16:20], uint32(hdr.Depth))
	binary.LittleEndian.PutUint32(raw[20:24], uint32(hdr.Scalar))
	binary.LittleEndian.PutUint32(raw[24:28], uint32(hdr.TimeSteps))
	_, err := w.Write(raw[:])
	return err
}

// WriteUint8Frame writes one frame's worth of uint8 voxels.
func WriteUint8Frame(w io.Writer, data []uint8) error {
	_, err := w.Write(data)
	return err
}
