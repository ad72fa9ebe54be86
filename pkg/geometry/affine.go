// Package geometry derives the voxel-to-world transform of a reconstructed
// Bruker volume from its method and visu_pars parameters.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnrecognizedOrientation is returned for a slice orientation outside axial, sagittal and coronal
	ErrUnrecognizedOrientation = errors.New("unrecognized slice orientation, double check method SPackArrSliceOrient")

	// ErrSingularOrientation is returned when the orientation matrix cannot be inverted
	ErrSingularOrientation = errors.New("orientation matrix is not invertible")

	// ErrAffineConsistency is returned when the determinant of the affine does
	// not match the signed voxel volume. It means the basis table or the input
	// is wrong and the matrix must not be used.
	ErrAffineConsistency = errors.New("affine determinant does not match the voxel volume")

	// ErrMissingParameter is returned when a parameter needed for the affine is absent or malformed
	ErrMissingParameter = errors.New("missing geometry parameter")
)

// ReadOrientAP is the read orientation label for anterior-to-posterior reads
const ReadOrientAP = "A_P"

const determinantTolerance = 1e-7

// Slice orientation labels as written in method SPackArrSliceOrient
const (
	Axial    = "axial"
	Sagittal = "sagittal"
	Coronal  = "coronal"
)

// basisTable holds the empirically derived axis directions, indexed by
// whether the read direction is anterior-to-posterior and by slice orientation.
var basisTable = map[bool]map[string][]float64{
	true: {
		Axial:    {-1, 0, 0, 0, 0, 1, 0, -1, 0}, // RSP
		Sagittal: {0, 0, -1, 0, 1, 0, -1, 0, 0}, // SPR
		Coronal:  {-1, 0, 0, 0, 1, 0, 0, 0, 1},  // RPI
	},
	false: {
		Axial:    {-1, 0, 0, 0, 0, -1, 0, -1, 0}, // RSA
		Sagittal: {0, 0, -1, 0, -1, 0, -1, 0, 0}, // SAR
		Coronal:  {-1, 0, 0, 0, -1, 0, 0, 0, 1},  // RAI
	},
}

// OrientationSpec gathers the inputs of the affine
type OrientationSpec struct {
	// Orientation is the 3x3 VisuCoreOrientation, which maps world to voxel axes
	Orientation mat.Matrix

	// SliceOrient is one of Axial, Sagittal or Coronal
	SliceOrient string

	// ReadOrient is the read direction label, e.g. "L_R" or "A_P"
	ReadOrient string

	// Method is the acquisition method (e.g. "Bruker:RARE"), kept for diagnostics
	Method string

	// Resolution is the voxel size in mm along each axis
	Resolution [3]float64

	// Translation is the position of the first voxel in mm
	Translation [3]float64
}

// Affine is the result of ComputeAffine
type Affine struct {
	// Matrix is the 4x4 voxel-to-world transform
	Matrix *mat.Dense

	// Orientation is the inverse of the input orientation, i.e. the voxel to
	// world directions reported by the scanner. It is not used to build
	// Matrix yet: the basis comes from the lookup table only.
	Orientation *mat.Dense

	// InvertAP is set when the read direction is anterior-to-posterior
	InvertAP bool
}

// ComputeAffine builds the voxel-to-world affine for a volume.
//
// The rotation block is the basis selected by (read orientation, slice
// orientation) scaled by the resolution; the last column is the translation.
// The determinant must equal the product of the resolution, negated for
// anterior-to-posterior reads, within 1e-7.
func ComputeAffine(spec OrientationSpec) (*Affine, error) {
	if d, ok := spec.Orientation.(*mat.Dense); spec.Orientation == nil || (ok && d == nil) {
		return nil, fmt.Errorf("%w: orientation matrix", ErrMissingParameter)
	}
	if r, c := spec.Orientation.Dims(); r != 3 || c != 3 {
		return nil, fmt.Errorf("%w: orientation must be 3x3, got %dx%d", ErrMissingParameter, r, c)
	}

	// VisuCoreOrientation is world to voxel, nifti wants voxel to world.
	var orientation mat.Dense
	if err := orientation.Inverse(spec.Orientation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularOrientation, err)
	}

	invertAP := spec.ReadOrient == ReadOrientAP

	directions, ok := basisTable[invertAP][spec.SliceOrient]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedOrientation, spec.SliceOrient)
	}

	var rotation mat.Dense
	rotation.Mul(mat.NewDense(3, 3, directions), mat.NewDiagDense(3, spec.Resolution[:]))

	result := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result.Set(i, j, rotation.At(i, j))
		}
		result.Set(i, 3, spec.Translation[i])
	}
	result.Set(3, 3, 1)

	// sanity check
	expected := floats.Prod(spec.Resolution[:])
	if invertAP {
		expected = -expected
	}
	// NaN or infinite inputs fail the comparison and are rejected.
	if det := mat.Det(result); !(math.Abs(det-expected) < determinantTolerance) {
		return nil, fmt.Errorf("%w: det %g, expected %g", ErrAffineConsistency, det, expected)
	}

	return &Affine{
		Matrix:      result,
		Orientation: &orientation,
		InvertAP:    invertAP,
	}, nil
}
