package intensity

import (
	"errors"
	"math"
	"testing"

	"brukerconv/internal/models"
	"brukerconv/pkg/paravision"
)

// rampVolume returns a volume whose samples count up from 1
func rampVolume(t *testing.T, shape ...int) *models.Volume {
	vol, err := models.NewVolume(shape...)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}
	for i := range vol.Data {
		vol.Data[i] = float64(i + 1)
	}
	return vol
}

func TestCorrectSlopeScalar(t *testing.T) {
	vol, _ := models.NewVolume(4, 3, 2)
	for i := range vol.Data {
		vol.Data[i] = 1
	}

	out, err := CorrectSlope(vol, ScalarSlope(2.5), 0)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	for i, v := range out.Data {
		if v != 2.5 {
			t.Fatalf("Sample %d = %v, want 2.5", i, v)
		}
	}
	if vol.Data[0] != 1 {
		t.Error("Input volume was modified")
	}
}

func TestCorrectSlope3D(t *testing.T) {
	vol := rampVolume(t, 2, 2, 3)
	slope := []float64{1, 10, 100}

	out, err := CorrectSlope(vol, VectorSlope(slope), 0)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	for s := 0; s < 3; s++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				want := vol.At(x, y, s) * slope[s]
				if got := out.At(x, y, s); got != want {
					t.Errorf("(%d,%d,%d) = %v, want %v", x, y, s, got, want)
				}
			}
		}
	}
}

// TestCorrectSlope4D checks result[..., t, k] == original[..., t, k] * slope[t]
func TestCorrectSlope4D(t *testing.T) {
	vol := rampVolume(t, 2, 3, 4, 5)
	slope := []float64{0.5, 1.5, 2.5, 3.5}

	out, err := CorrectSlope(vol, VectorSlope(slope), 0)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	for k := 0; k < 5; k++ {
		for s := 0; s < 4; s++ {
			for y := 0; y < 3; y++ {
				for x := 0; x < 2; x++ {
					want := vol.At(x, y, s, k) * slope[s]
					if got := out.At(x, y, s, k); math.Abs(got-want) > 1e-12 {
						t.Fatalf("(%d,%d,%d,%d) = %v, want %v", x, y, s, k, got, want)
					}
				}
			}
		}
	}
}

// TestCorrectSlope4DFrames covers a 4D volume whose slope matches the frame axis
func TestCorrectSlope4DFrames(t *testing.T) {
	vol := rampVolume(t, 2, 2, 3, 2)
	slope := []float64{2, 4}

	out, err := CorrectSlope(vol, VectorSlope(slope), 0)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	for f := 0; f < 2; f++ {
		for s := 0; s < 3; s++ {
			if got, want := out.At(1, 1, s, f), vol.At(1, 1, s, f)*slope[f]; got != want {
				t.Errorf("(1,1,%d,%d) = %v, want %v", s, f, got, want)
			}
		}
	}
}

func TestCorrectSlope5D(t *testing.T) {
	vol := rampVolume(t, 2, 2, 2, 3, 2)
	slope := []float64{1, 2, 3}

	out, err := CorrectSlope(vol, VectorSlope(slope), 0)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	for k := 0; k < 2; k++ {
		for s := 0; s < 3; s++ {
			if got, want := out.At(1, 0, 1, s, k), vol.At(1, 0, 1, s, k)*slope[s]; got != want {
				t.Errorf("(1,0,1,%d,%d) = %v, want %v", s, k, got, want)
			}
		}
	}
}

func TestCorrectSlopeSkip(t *testing.T) {
	vol := rampVolume(t, 2, 2, 4)
	slope := []float64{100, 1, 2, 3}

	out, err := CorrectSlope(vol, VectorSlope(slope), 1)
	if err != nil {
		t.Fatalf("CorrectSlope failed: %v", err)
	}
	if out.Shape[2] != 3 {
		t.Fatalf("Expected 3 slices after skipping one, got %v", out.Shape)
	}
	for s := 0; s < 3; s++ {
		if got, want := out.At(0, 1, s), vol.At(0, 1, s+1)*slope[s+1]; got != want {
			t.Errorf("slice %d = %v, want %v", s, got, want)
		}
	}
}

func TestCorrectSlopeErrors(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		slope Slope
		skip  int
		want  error
	}{
		{"3D length mismatch", []int{2, 2, 3}, VectorSlope([]float64{1, 2}), 0, ErrShapeMismatch},
		{"4D length mismatch", []int{2, 2, 3, 4}, VectorSlope([]float64{1, 2}), 0, ErrShapeMismatch},
		{"5D length mismatch", []int{2, 2, 2, 3, 4}, VectorSlope([]float64{1, 2}), 0, ErrShapeMismatch},
		{"6D volume", []int{1, 1, 1, 1, 1, 2}, ScalarSlope(2), 0, ErrDimensionality},
		{"2D vector slope", []int{2, 2}, VectorSlope([]float64{1, 2}), 0, ErrDimensionality},
		{"skip whole slope", []int{2, 2, 3}, VectorSlope([]float64{1}), 1, ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol := rampVolume(t, tt.shape...)
			out, err := CorrectSlope(vol, tt.slope, tt.skip)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if out != nil {
				t.Error("Expected no partial output")
			}
			if vol.Data[0] != 1 {
				t.Error("Input volume was modified")
			}
		})
	}
}

func TestCorrectSlopeNoAxes(t *testing.T) {
	for _, skip := range []int{0, 1} {
		out, err := CorrectSlope(&models.Volume{}, ScalarSlope(2), skip)
		if !errors.Is(err, ErrDimensionality) {
			t.Errorf("skip %d: expected ErrDimensionality, got %v", skip, err)
		}
		if out != nil {
			t.Errorf("skip %d: expected no output", skip)
		}
	}
}

func TestSlopeFromParameters(t *testing.T) {
	slope, err := SlopeFromParameters(paravision.Map{"VisuCoreDataSlope": paravision.Scalar(0.25)})
	if err != nil || !slope.IsScalar() {
		t.Fatalf("Expected scalar slope, got %v, %v", slope, err)
	}

	slope, err = SlopeFromParameters(paravision.Map{
		"VisuCoreDataSlope": paravision.NumericArray{Data: []float64{1, 2, 3}, Shape: []int{3}},
	})
	if err != nil || slope.IsScalar() || len(slope.Values()) != 3 {
		t.Fatalf("Expected vector slope, got %v, %v", slope, err)
	}

	if _, err := SlopeFromParameters(paravision.Map{}); !errors.Is(err, paravision.ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	vol, _ := models.NewVolumeFromData([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)

	summary, err := Summarize(vol)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Min != 1 || summary.Max != 8 {
		t.Errorf("Unexpected range %v..%v", summary.Min, summary.Max)
	}
	if math.Abs(summary.Mean-4.5) > 1e-12 {
		t.Errorf("Mean = %v, want 4.5", summary.Mean)
	}
	// sample standard deviation of 1..8
	if math.Abs(summary.StdDev-math.Sqrt(6)) > 1e-12 {
		t.Errorf("StdDev = %v, want %v", summary.StdDev, math.Sqrt(6))
	}
}
