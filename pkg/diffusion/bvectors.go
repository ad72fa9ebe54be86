// Package diffusion prepares the gradient directions of diffusion weighted scans.
package diffusion

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"brukerconv/pkg/paravision"
)

// ErrNoGradients is returned when the method file carries no gradient vectors
var ErrNoGradients = errors.New("no diffusion gradient vectors")

// zeroNormThreshold is the norm below which a row is treated as a b0 direction
const zeroNormThreshold = 10e-5

// gradientKeys are the method parameters holding gradient vectors, in order of preference
var gradientKeys = []string{"DwGradVec", "DwDir"}

// NormaliseBVectors scales every row of b to unit length. Rows whose norm is
// below 1e-4 have no direction: they become NaN, or 0 when removeNaN is set.
// b is not modified.
func NormaliseBVectors(b mat.Matrix, removeNaN bool) *mat.Dense {
	r, c := b.Dims()
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)

	for i := 0; i < r; i++ {
		mat.Row(row, i, b)
		norm := floats.Norm(row, 2)
		// a NaN norm also fails the comparison and lands here
		if !(norm >= zeroNormThreshold) {
			fill := math.NaN()
			if removeNaN {
				fill = 0
			}
			for j := range row {
				row[j] = fill
			}
		} else {
			floats.Scale(1/norm, row)
		}
		out.SetRow(i, row)
	}
	return out
}

// BVectorsFromParameters reads the gradient directions of a parsed method
// file as an n x 3 matrix. DwGradVec is used when present, DwDir otherwise.
func BVectorsFromParameters(method paravision.Map) (*mat.Dense, error) {
	for _, key := range gradientKeys {
		if _, ok := method[key]; !ok {
			continue
		}
		values, err := method.Floats(key)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 || len(values)%3 != 0 {
			return nil, fmt.Errorf("%s has %d values, want rows of 3", key, len(values))
		}
		return mat.NewDense(len(values)/3, 3, values), nil
	}
	return nil, ErrNoGradients
}

// WriteBVectors writes one "x y z" line per row
func WriteBVectors(w io.Writer, b mat.Matrix) error {
	r, c := b.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sep := " "
			if j == c-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%g%s", b.At(i, j), sep); err != nil {
				return err
			}
		}
	}
	return nil
}
