package intensity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"brukerconv/internal/models"
)

// Summary holds basic statistics of a volume's samples
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes the statistics of all samples in vol
func Summarize(vol *models.Volume) (Summary, error) {
	if len(vol.Data) == 0 {
		return Summary{}, fmt.Errorf("cannot summarize an empty volume")
	}
	mean, std := stat.MeanStdDev(vol.Data, nil)
	return Summary{
		Min:    floats.Min(vol.Data),
		Max:    floats.Max(vol.Data),
		Mean:   mean,
		StdDev: std,
	}, nil
}
