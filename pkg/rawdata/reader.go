// Package rawdata reads the reconstructed sample file (2dseq) of a Bruker sub-scan.
package rawdata

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"brukerconv/internal/models"
	"brukerconv/pkg/paravision"
)

// ErrUnsupportedWordType is returned for a VisuCoreWordType the reader cannot decode
var ErrUnsupportedWordType = errors.New("unsupported word type")

// Word types as written in visu_pars VisuCoreWordType
const (
	WordUint8   = "_8BIT_UNSGN_INT"
	WordInt16   = "_16BIT_SGN_INT"
	WordInt32   = "_32BIT_SGN_INT"
	WordFloat32 = "_32BIT_FLOAT"
)

// Layout describes how samples are stored in a 2dseq file
type Layout struct {
	// WordType is one of the Word* constants
	WordType string

	ByteOrder binary.ByteOrder

	// Shape is VisuCoreSize, followed by the frame count when there is more than one frame
	Shape []int
}

// LayoutFromParameters reads the sample layout from a parsed visu_pars file
func LayoutFromParameters(visu paravision.Map) (Layout, error) {
	var layout Layout

	wordType, err := visu.Label("VisuCoreWordType")
	if err != nil {
		return layout, err
	}
	layout.WordType = wordType

	order, err := visu.Label("VisuCoreByteOrder")
	if err != nil {
		return layout, err
	}
	switch order {
	case "littleEndian":
		layout.ByteOrder = binary.LittleEndian
	case "bigEndian":
		layout.ByteOrder = binary.BigEndian
	default:
		return layout, fmt.Errorf("illegal byte order %q", order)
	}

	size, err := visu.Ints("VisuCoreSize")
	if err != nil {
		return layout, err
	}
	layout.Shape = size

	frames := 1
	if counts, err := visu.Ints("VisuCoreFrameCount"); err == nil {
		frames = counts[0]
	} else if !errors.Is(err, paravision.ErrMissingKey) {
		return layout, err
	}
	if frames > 1 {
		layout.Shape = append(layout.Shape, frames)
	}

	return layout, nil
}

func (l Layout) bytesPerSample() (int, error) {
	switch l.WordType {
	case WordUint8:
		return 1, nil
	case WordInt16:
		return 2, nil
	case WordInt32, WordFloat32:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedWordType, l.WordType)
	}
}

// ByteSize returns the number of bytes a 2dseq file with this layout holds
func (l Layout) ByteSize() (int64, error) {
	bps, err := l.bytesPerSample()
	if err != nil {
		return 0, err
	}
	if len(l.Shape) == 0 {
		return 0, fmt.Errorf("empty shape")
	}
	size := int64(bps)
	for _, s := range l.Shape {
		if s <= 0 {
			return 0, fmt.Errorf("invalid axis size %d in shape %v", s, l.Shape)
		}
		if size > math.MaxInt64/int64(s) {
			return 0, fmt.Errorf("shape %v is too large", l.Shape)
		}
		size *= int64(s)
	}
	return size, nil
}

// Path returns the location of the 2dseq file of a sub-scan
func Path(scanRoot string, subScan int) string {
	if subScan < 1 {
		subScan = 1
	}
	return filepath.Join(scanRoot, "pdata", strconv.Itoa(subScan), "2dseq")
}

// ReadFile reads the 2dseq file of a sub-scan described by its visu_pars
func ReadFile(scanRoot string, subScan int, visu paravision.Map) (*models.Volume, error) {
	layout, err := LayoutFromParameters(visu)
	if err != nil {
		return nil, fmt.Errorf("error reading 2dseq layout: %w", err)
	}

	path := Path(scanRoot, subScan)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	// Check the file length before allocating anything from the header.
	want, err := layout.ByteSize()
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if info.Size() != want {
		return nil, fmt.Errorf("%s holds %d bytes, shape %v of %s needs %d", path, info.Size(), layout.Shape, layout.WordType, want)
	}

	vol, err := ReadVolume(bufio.NewReader(f), layout)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return vol, nil
}

// ReadVolume decodes samples from r. The stream must hold exactly the number
// of samples the shape calls for.
func ReadVolume(r io.Reader, layout Layout) (*models.Volume, error) {
	bps, err := layout.bytesPerSample()
	if err != nil {
		return nil, err
	}

	vol, err := models.NewVolume(layout.Shape...)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, len(vol.Data)*bps)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("expected %d bytes for shape %v: %w", len(buf), layout.Shape, err)
	}
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("data is larger than shape %v", layout.Shape)
	}

	bo := layout.ByteOrder
	for i := range vol.Data {
		word := buf[i*bps : (i+1)*bps]
		switch layout.WordType {
		case WordUint8:
			vol.Data[i] = float64(word[0])
		case WordInt16:
			vol.Data[i] = float64(int16(bo.Uint16(word)))
		case WordInt32:
			vol.Data[i] = float64(int32(bo.Uint32(word)))
		case WordFloat32:
			vol.Data[i] = float64(math.Float32frombits(bo.Uint32(word)))
		}
	}

	return vol, nil
}
