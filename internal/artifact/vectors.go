package artifact

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Vector files hold a fixed header followed by row-major little-endian
// float32 values:
//
//	magic "FQV1" | uint32 rows | uint32 dim | rows*dim float32
var vectorMagic = [4]byte{'F', 'Q', 'V', '1'}

// WriteVectors encodes a rectangular vector array. All rows must share one
// dimension.
func WriteVectors(w io.Writer, vectors [][]float64) error {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, expected %d", ErrMisaligned, i, len(v), dim)
		}
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(vectorMagic[:]); err != nil {
		return err
	}
	header := []uint32{uint32(len(vectors)), uint32(dim)}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	buf := make([]byte, 4)
	for _, v := range vectors {
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(x)))
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadVectors decodes a stream written by WriteVectors.
func ReadVectors(r io.Reader) ([][]float64, error) {
	br := bufio.NewReader(r)
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("read vector header: %w", err)
	}
	if magic != vectorMagic {
		return nil, errors.New("not a vector file")
	}
	var header [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read vector header: %w", err)
	}
	rows, dim := int(header[0]), int(header[1])
	buf := make([]byte, 4*dim)
	vectors := make([][]float64, rows)
	for i := range vectors {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("%w: truncated at row %d of %d", ErrMisaligned, i, rows)
		}
		v := make([]float64, dim)
		for j := range v {
			v[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*j:])))
		}
		vectors[i] = v
	}
	return vectors, nil
}

func WriteVectorsFile(path string, vectors [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteVectors(f, vectors); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadVectorsFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVectors(f)
}
