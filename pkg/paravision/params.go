package paravision

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrMissingKey is returned by the typed accessors when a key is absent
	ErrMissingKey = errors.New("parameter not found")

	// ErrKindMismatch is returned when a value cannot be read as the requested type
	ErrKindMismatch = errors.New("parameter has an incompatible kind")
)

// Map holds the parsed parameters of one file, keyed by normalised name
type Map map[string]Value

// Keys returns the parameter names in lexicographic order
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Floats returns a numeric parameter as a flat, row-major sequence
func (m Map) Floats(key string) ([]float64, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	switch val := v.(type) {
	case Scalar:
		return []float64{float64(val)}, nil
	case NumericArray:
		return append([]float64(nil), val.Data...), nil
	default:
		return nil, fmt.Errorf("%w: %s is %s, want numbers", ErrKindMismatch, key, v.Kind())
	}
}

// Float returns a numeric parameter as one number, the first one for arrays
func (m Map) Float(key string) (float64, error) {
	values, err := m.Floats(key)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// Ints returns a numeric parameter whose values are all whole numbers
func (m Map) Ints(key string) ([]int, error) {
	values, err := m.Floats(key)
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(values))
	for i, f := range values {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: %s holds non-integer %v", ErrKindMismatch, key, f)
		}
		ints[i] = int(f)
	}
	return ints, nil
}

// Labels returns a textual parameter as a list of strings
func (m Map) Labels(key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	switch val := v.(type) {
	case Text:
		return []string{string(val)}, nil
	case StringList:
		return append([]string(nil), val...), nil
	case VectorList:
		return append([]string(nil), val...), nil
	case Scalar:
		return []string{val.String()}, nil
	default:
		return nil, fmt.Errorf("%w: %s is %s, want text", ErrKindMismatch, key, v.Kind())
	}
}

// Label returns a textual parameter, the first entry for lists
func (m Map) Label(key string) (string, error) {
	labels, err := m.Labels(key)
	if err != nil {
		return "", err
	}
	return labels[0], nil
}
