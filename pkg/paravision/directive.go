package paravision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	directiveMarker = "##"
	recordMarker    = "$$"
)

// ErrMalformedDirective is returned for a directive whose declared shape is
// not a list of integers.
var ErrMalformedDirective = errors.New("malformed directive")

// DirectiveShape is the syntactic variant of a directive line
type DirectiveShape int

const (
	// ShapeVector lines carry "$" and "(" but no "<": a declared array shape,
	// or the start of a vector, with the value on the following lines.
	ShapeVector DirectiveShape = iota

	// ShapeInline lines carry "$" and no "(": the whole value follows "=".
	ShapeInline

	// ShapeStringList lines carry "(" and no "$": the value starts after "="
	// and continues on the following lines.
	ShapeStringList

	// ShapeFreeText lines carry neither "$" nor "(": a single line of text.
	ShapeFreeText

	// ShapeLiteral covers the remaining combination. The value is stored as
	// cleaned text without going through ParseBlock.
	ShapeLiteral
)

func (s DirectiveShape) String() string {
	switch s {
	case ShapeVector:
		return "vector"
	case ShapeInline:
		return "inline"
	case ShapeStringList:
		return "string-list"
	case ShapeFreeText:
		return "free-text"
	case ShapeLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Directive is the outcome of classifying a single directive line
type Directive struct {
	// Key is the normalised parameter name
	Key string

	Shape DirectiveShape

	// Seed is the start of the value block for continuing shapes, the
	// complete value for single-line shapes, or the literal text.
	Seed string

	// Declared is the array shape announced on the line, if any
	Declared []int
}

// Continues reports whether the value goes on over the following lines
func (d Directive) Continues() bool {
	return d.Shape == ShapeVector || d.Shape == ShapeStringList
}

// HasDirectiveMarker reports whether line starts a new key
func HasDirectiveMarker(line string) bool {
	return strings.Contains(line, directiveMarker)
}

// isBoundary reports whether line ends a continuation block
func isBoundary(line string) bool {
	return strings.Contains(line, directiveMarker) || strings.Contains(line, recordMarker)
}

// CleanKey strips "#", "$" and the "PVM_" prefix from a raw key
func CleanKey(raw string) string {
	raw = strings.ReplaceAll(raw, "#", "")
	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, "PVM_", "")
	return strings.TrimSpace(raw)
}

var literalNoise = strings.NewReplacer("(", "", ")", "", "\n", "", "<", "", ">", "", ",", " ")

// ClassifyDirective decides which variant a directive line is and extracts
// its key, its inline value or continuation seed, and any declared shape.
// It looks at the line alone.
func ClassifyDirective(line string) (Directive, error) {
	line = strings.TrimRight(line, "\r\n")
	left, right, _ := strings.Cut(line, "=")

	hasValueMarker := strings.Contains(line, "$")
	hasParen := strings.Contains(line, "(")
	hasAngle := strings.Contains(line, "<")

	switch {
	case hasValueMarker && hasParen && !hasAngle:
		d := Directive{Key: CleanKey(dropPrefix(left, 3)), Shape: ShapeVector}
		compact := strings.ReplaceAll(right, " ", "")
		switch {
		case strings.HasSuffix(compact, ","):
			// first part of a vector continuing on the next lines
			d.Seed = stripBrackets(right)
		case strings.HasSuffix(compact, ")") && strings.Contains(right, "."):
			// a complete vector
			d.Seed = stripBrackets(right)
		default:
			shape, err := parseDeclaredShape(stripBrackets(right))
			if err != nil {
				return Directive{}, fmt.Errorf("%w: key %q: %v", ErrMalformedDirective, d.Key, err)
			}
			d.Declared = shape
		}
		return d, nil

	case hasValueMarker && !hasParen:
		return Directive{Key: CleanKey(dropPrefix(left, 3)), Shape: ShapeInline, Seed: right}, nil

	case !hasValueMarker && hasParen:
		return Directive{
			Key:   CleanKey(dropPrefix(left, 2)),
			Shape: ShapeStringList,
			Seed:  strings.TrimSpace(right) + " ",
		}, nil

	case !hasValueMarker && !hasParen:
		return Directive{
			Key:   CleanKey(left),
			Shape: ShapeFreeText,
			Seed:  strings.TrimSpace(strings.ReplaceAll(right, "=", "")),
		}, nil
	}

	return Directive{
		Key:   CleanKey(left),
		Shape: ShapeLiteral,
		Seed:  strings.TrimSpace(literalNoise.Replace(right)),
	}, nil
}

func dropPrefix(s string, n int) string {
	if len(s) < n {
		return ""
	}
	return s[n:]
}

func stripBrackets(s string) string {
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

func parseDeclaredShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("shape entry %q is not an integer", p)
		}
		shape[i] = n
	}
	return shape, nil
}
