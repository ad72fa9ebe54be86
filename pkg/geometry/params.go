package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"brukerconv/pkg/paravision"
)

// OrientationFromParameters collects the affine inputs from parsed files:
//
//	visu_pars VisuCoreOrientation  -> Orientation (first 3x3 block)
//	visu_pars VisuCorePosition     -> Translation (first slice)
//	method    SPackArrSliceOrient  -> SliceOrient (first slice package)
//	method    SPackArrReadOrient   -> ReadOrient (first slice package)
//	method    SpatResol            -> Resolution, plus acqp ACQ_slice_thick for 2D scans
//	method    Method               -> Method
func OrientationFromParameters(visu, method, acqp paravision.Map) (OrientationSpec, error) {
	var spec OrientationSpec

	orientation, err := visu.Floats("VisuCoreOrientation")
	if err != nil {
		return spec, fmt.Errorf("%w: %w", ErrMissingParameter, err)
	}
	if len(orientation) < 9 {
		return spec, fmt.Errorf("%w: VisuCoreOrientation has %d values, need 9", ErrMissingParameter, len(orientation))
	}
	spec.Orientation = mat.NewDense(3, 3, orientation[:9])

	position, err := visu.Floats("VisuCorePosition")
	if err != nil {
		return spec, fmt.Errorf("%w: %w", ErrMissingParameter, err)
	}
	if len(position) < 3 {
		return spec, fmt.Errorf("%w: VisuCorePosition has %d values, need 3", ErrMissingParameter, len(position))
	}
	copy(spec.Translation[:], position[:3])

	if spec.SliceOrient, err = method.Label("SPackArrSliceOrient"); err != nil {
		return spec, fmt.Errorf("%w: %w", ErrMissingParameter, err)
	}
	if spec.ReadOrient, err = method.Label("SPackArrReadOrient"); err != nil {
		return spec, fmt.Errorf("%w: %w", ErrMissingParameter, err)
	}

	resolution, err := method.Floats("SpatResol")
	if err != nil {
		return spec, fmt.Errorf("%w: %w", ErrMissingParameter, err)
	}
	if len(resolution) == 2 {
		thickness, err := acqp.Float("ACQ_slice_thick")
		if err != nil {
			return spec, fmt.Errorf("%w: 2D scan needs slice thickness: %w", ErrMissingParameter, err)
		}
		resolution = append(resolution, thickness)
	}
	if len(resolution) != 3 {
		return spec, fmt.Errorf("%w: SpatResol has %d values, need 2 or 3", ErrMissingParameter, len(resolution))
	}
	copy(spec.Resolution[:], resolution)

	// Method is informative only.
	spec.Method, _ = method.Label("Method")

	return spec, nil
}
