package models

import (
	"fmt"
)

// Volume represents an N-dimensional block of image samples
type Volume struct {
	// Shape holds the size of each axis, e.g. [X, Y, Slices, Frames]
	Shape []int

	// Data is the flat sample array. The first axis varies fastest, which is
	// the order samples are stored in 2dseq files and NIfTI images.
	Data []float64
}

// NewVolume allocates a zero-filled volume with the given shape
func NewVolume(shape ...int) (*Volume, error) {
	n, err := elementCount(shape)
	if err != nil {
		return nil, err
	}
	return &Volume{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, n),
	}, nil
}

// NewVolumeFromData wraps existing samples, checking that they fill the shape exactly
func NewVolumeFromData(data []float64, shape ...int) (*Volume, error) {
	n, err := elementCount(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d samples, got %d", shape, n, len(data))
	}
	return &Volume{
		Shape: append([]int(nil), shape...),
		Data:  data,
	}, nil
}

func elementCount(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("volume needs at least one axis")
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("invalid axis size %d in shape %v", s, shape)
		}
		n *= s
	}
	return n, nil
}

// NDim returns the number of axes
func (v *Volume) NDim() int {
	return len(v.Shape)
}

// Stride returns the distance in Data between neighbours along axis
func (v *Volume) Stride(axis int) int {
	stride := 1
	for i := 0; i < axis; i++ {
		stride *= v.Shape[i]
	}
	return stride
}

// Index converts per-axis coordinates into a position in Data
func (v *Volume) Index(coords ...int) int {
	idx := 0
	stride := 1
	for i, c := range coords {
		idx += c * stride
		stride *= v.Shape[i]
	}
	return idx
}

// At returns the sample at the given coordinates
func (v *Volume) At(coords ...int) float64 {
	return v.Data[v.Index(coords...)]
}

// Clone returns a deep copy of the volume
func (v *Volume) Clone() *Volume {
	return &Volume{
		Shape: append([]int(nil), v.Shape...),
		Data:  append([]float64(nil), v.Data...),
	}
}

// TrimLastAxis drops the first n entries of the last axis
func (v *Volume) TrimLastAxis(n int) (*Volume, error) {
	if len(v.Shape) == 0 {
		return nil, fmt.Errorf("cannot skip entries of a volume without axes")
	}
	last := len(v.Shape) - 1
	if n < 0 || n >= v.Shape[last] {
		return nil, fmt.Errorf("cannot skip %d entries of an axis of size %d", n, v.Shape[last])
	}
	// The last axis is the slowest one, so the kept samples are a contiguous tail.
	offset := n * v.Stride(last)
	shape := append([]int(nil), v.Shape...)
	shape[last] -= n
	return &Volume{
		Shape: shape,
		Data:  append([]float64(nil), v.Data[offset:]...),
	}, nil
}
