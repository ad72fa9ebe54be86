// Package visualization renders preview slices of a reconstructed volume.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"brukerconv/internal/models"
)

// Viewer extracts 2D slices from the first 3D block of a volume. Extra axes
// (echoes, repetitions, diffusion directions) are held at index 0.
type Viewer struct {
	// volumeData holds the samples of the first 3D block
	volumeData []float64

	// dimensions of the block
	width  int
	height int
	depth  int

	// intensity window used to map samples to grey levels
	low  float64
	high float64
}

// NewViewer creates a viewer for a volume with two or more axes
func NewViewer(vol *models.Volume) (*Viewer, error) {
	if vol.NDim() < 2 {
		return nil, fmt.Errorf("preview needs at least 2 dimensions, got shape %v", vol.Shape)
	}

	depth := 1
	if vol.NDim() > 2 {
		depth = vol.Shape[2]
	}
	v := &Viewer{
		width:  vol.Shape[0],
		height: vol.Shape[1],
		depth:  depth,
	}
	// The first 3D block is contiguous since the first axis varies fastest.
	v.volumeData = vol.Data[:v.width*v.height*v.depth]
	v.low = floats.Min(v.volumeData)
	v.high = floats.Max(v.volumeData)

	return v, nil
}

// grey maps a sample into the 16-bit range using the volume's min/max window
func (v *Viewer) grey(sample float64) color.Gray16 {
	if v.high <= v.low {
		return color.Gray16{}
	}
	scaled := (sample - v.low) / (v.high - v.low)
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, scaled*65535)))}
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= v.width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.width)
		}
		img = image.NewGray16(image.Rect(0, 0, v.depth, v.height))
		for y := 0; y < v.height; y++ {
			for z := 0; z < v.depth; z++ {
				img.SetGray16(z, y, v.grey(v.volumeData[z*v.width*v.height+y*v.width+position]))
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= v.height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.height)
		}
		img = image.NewGray16(image.Rect(0, 0, v.width, v.depth))
		for z := 0; z < v.depth; z++ {
			for x := 0; x < v.width; x++ {
				img.SetGray16(x, z, v.grey(v.volumeData[z*v.width*v.height+position*v.width+x]))
			}
		}

	case "z", "Z":
		// XY plane
		if position >= v.depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.depth)
		}
		img = image.NewGray16(image.Rect(0, 0, v.width, v.height))
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				img.SetGray16(x, y, v.grey(v.volumeData[position*v.width*v.height+y*v.width+x]))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.width
	case "y", "Y":
		maxPos = v.height
	case "z", "Z":
		maxPos = v.depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
