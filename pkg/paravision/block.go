package paravision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrShapeMismatch is returned when a declared array shape does not match the
// number of values that follow it.
var ErrShapeMismatch = errors.New("declared shape does not match value count")

var numericNoise = strings.NewReplacer("-", "", ".", "", " ", "", "e", "")

// ParseBlock turns one value block into a typed Value. The first matching rule wins:
//
//  1. "(" and ")" present: a list of vectors split on ") (".
//  2. only digits once "-", ".", "e" and spaces are removed: numbers, reshaped
//     row-major into shape when one is given.
//  3. "<" and ">" present: a list of strings split on "> <".
//  4. anything else is kept as Text.
//
// A list with a single element collapses to that element.
func ParseBlock(s string, shape []int) (Value, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.Contains(s, "(") && strings.Contains(s, ")"):
		parts := strings.Split(s[1:len(s)-1], ") (")
		vectors := make(VectorList, len(parts))
		for i, p := range parts {
			vectors[i] = "(" + p + ")"
		}
		if len(vectors) == 1 {
			return Text(vectors[0]), nil
		}
		return vectors, nil

	case isNumericBlock(s):
		if v, ok, err := parseNumbers(s, shape); ok || err != nil {
			return v, err
		}
		// Passed the character test but is not a number, e.g. a date.
		return Text(s), nil

	case strings.Contains(s, "<") && strings.Contains(s, ">"):
		list := StringList(strings.Split(s[1:len(s)-1], "> <"))
		if len(list) == 1 {
			return Text(list[0]), nil
		}
		return list, nil
	}

	return Text(s), nil
}

func isNumericBlock(s string) bool {
	rest := numericNoise.Replace(s)
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseNumbers reports ok=false when a token is not a valid float
func parseNumbers(s string, shape []int) (Value, bool, error) {
	if !strings.Contains(s, " ") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false, nil
		}
		return Scalar(f), true, nil
	}

	fields := strings.Fields(s)
	data := make([]float64, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false, nil
		}
		data[i] = f
	}

	if len(shape) > 0 {
		n := 1
		for _, d := range shape {
			n *= d
		}
		if n != len(data) {
			return nil, false, fmt.Errorf("%w: shape %v holds %d values, block has %d", ErrShapeMismatch, shape, n, len(data))
		}
		return NumericArray{Data: data, Shape: append([]int(nil), shape...)}, true, nil
	}

	if len(data) == 1 {
		return Scalar(data[0]), true, nil
	}
	return NumericArray{Data: data}, true, nil
}
