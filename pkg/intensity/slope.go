// Package intensity rescales raw Bruker samples into calibrated values.
package intensity

import (
	"errors"
	"fmt"

	"brukerconv/internal/models"
)

var (
	// ErrShapeMismatch is returned when the slope length does not match the volume axis it scales
	ErrShapeMismatch = errors.New("slope and volume dimensions are not consistent")

	// ErrDimensionality is returned for volumes the corrector cannot handle
	ErrDimensionality = errors.New("unsupported volume dimensionality")
)

// maxDims is the highest dimensionality handled by CorrectSlope
const maxDims = 5

// Slope is either one factor for the whole volume or one factor per slab
type Slope struct {
	scalar   float64
	values   []float64
	isScalar bool
}

// ScalarSlope returns a slope applied to every sample
func ScalarSlope(f float64) Slope {
	return Slope{scalar: f, isScalar: true}
}

// VectorSlope returns a slope with one factor per slice or frame
func VectorSlope(values []float64) Slope {
	return Slope{values: append([]float64(nil), values...)}
}

// IsScalar reports whether the slope is a single factor
func (s Slope) IsScalar() bool {
	return s.isScalar
}

// Values returns the per-slab factors; nil for a scalar slope
func (s Slope) Values() []float64 {
	return s.values
}

func (s Slope) String() string {
	if s.isScalar {
		return fmt.Sprintf("%g", s.scalar)
	}
	return fmt.Sprintf("%v", s.values)
}

// CorrectSlope multiplies vol by slope and returns a new volume; vol is not modified.
//
// skip drops that many leading entries of the last axis, and of the slope
// when it is a vector, before anything else. Then, in order:
//
//   - a scalar slope scales every sample;
//   - a 3D volume is scaled slab by slab along axis 2;
//   - a 4D volume whose axis 2 matches the slope is scaled along axis 2 for every index of axis 3;
//   - a 5D volume whose axis 3 matches the slope is scaled along axis 3 for every index of axis 4;
//   - otherwise the slope must match axis 3.
func CorrectSlope(vol *models.Volume, slope Slope, skip int) (*models.Volume, error) {
	ndim := vol.NDim()
	if ndim == 0 {
		return nil, fmt.Errorf("%w: volume has no axes", ErrDimensionality)
	}
	if ndim > maxDims {
		return nil, fmt.Errorf("%w: 5d or lower dimensional images allowed, input has shape %v", ErrDimensionality, vol.Shape)
	}

	if skip > 0 {
		trimmed, err := vol.TrimLastAxis(skip)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}
		vol = trimmed
		if !slope.isScalar {
			if skip >= len(slope.values) {
				return nil, fmt.Errorf("%w: cannot skip %d of %d slope values", ErrShapeMismatch, skip, len(slope.values))
			}
			slope = VectorSlope(slope.values[skip:])
		}
	}

	if slope.isScalar {
		out := vol.Clone()
		for i := range out.Data {
			out.Data[i] *= slope.scalar
		}
		return out, nil
	}

	if ndim < 3 {
		return nil, fmt.Errorf("%w: a per-slice slope needs at least 3 dimensions, input has shape %v", ErrDimensionality, vol.Shape)
	}

	n := len(slope.values)
	var axis int
	switch {
	case ndim == 3:
		if vol.Shape[2] != n {
			return nil, fmt.Errorf("%w: axis 2 has %d entries, slope has %d", ErrShapeMismatch, vol.Shape[2], n)
		}
		axis = 2
	case ndim == 4 && vol.Shape[2] == n:
		axis = 2
	case ndim == 5 && vol.Shape[3] == n:
		axis = 3
	default:
		if vol.Shape[3] != n {
			return nil, fmt.Errorf("%w: axis 3 has %d entries, slope has %d", ErrShapeMismatch, vol.Shape[3], n)
		}
		axis = 3
	}

	return scaleAlongAxis(vol, axis, slope.values), nil
}

// scaleAlongAxis multiplies every sample by the factor of its index along axis
func scaleAlongAxis(vol *models.Volume, axis int, factors []float64) *models.Volume {
	out := vol.Clone()
	stride := vol.Stride(axis)
	size := vol.Shape[axis]
	for i := range out.Data {
		out.Data[i] *= factors[(i/stride)%size]
	}
	return out
}
