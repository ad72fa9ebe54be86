package intensity

import (
	"fmt"

	"brukerconv/pkg/paravision"
)

// SlopeFromParameters reads VisuCoreDataSlope from a parsed visu_pars file.
// A single value gives a scalar slope, an array one factor per frame.
func SlopeFromParameters(visu paravision.Map) (Slope, error) {
	v, ok := visu["VisuCoreDataSlope"]
	if !ok {
		return Slope{}, fmt.Errorf("%w: VisuCoreDataSlope", paravision.ErrMissingKey)
	}
	switch val := v.(type) {
	case paravision.Scalar:
		return ScalarSlope(float64(val)), nil
	case paravision.NumericArray:
		return VectorSlope(val.Data), nil
	default:
		return Slope{}, fmt.Errorf("%w: VisuCoreDataSlope is %s", paravision.ErrKindMismatch, v.Kind())
	}
}
