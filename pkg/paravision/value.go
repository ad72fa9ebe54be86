// Package paravision reads Bruker ParaVision parameter files (acqp, method,
// reco, visu_pars, subject) into typed key/value maps.
//
// The files follow a JCAMP-DX like dialect without a published grammar. Each
// key starts on a line carrying the "##" marker; its value may sit on the same
// line or continue over any number of following lines. Values come in four
// shapes: lists of parenthesised vectors, numbers (optionally with a declared
// array shape), lists of <angle bracketed> strings and free text.
package paravision

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindVectorList Kind = iota
	KindNumericArray
	KindScalar
	KindStringList
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindVectorList:
		return "vector-list"
	case KindNumericArray:
		return "numeric-array"
	case KindScalar:
		return "scalar"
	case KindStringList:
		return "string-list"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a parsed parameter value. The concrete type is one of VectorList,
// NumericArray, Scalar, StringList or Text; callers switch on it.
type Value interface {
	Kind() Kind
	String() string
}

// VectorList holds parenthesised sub-records such as "(1 0 0)". Each element
// keeps its parentheses and its content is not parsed further.
type VectorList []string

// NumericArray holds two or more numbers. Data is row-major; Shape is nil for
// a flat sequence and otherwise the declared dimensions.
type NumericArray struct {
	Data  []float64
	Shape []int
}

// Scalar is a single number
type Scalar float64

// StringList holds the tokens of a "<A> <B>" block without their brackets
type StringList []string

// Text is an unparsed value
type Text string

func (VectorList) Kind() Kind   { return KindVectorList }
func (NumericArray) Kind() Kind { return KindNumericArray }
func (Scalar) Kind() Kind       { return KindScalar }
func (StringList) Kind() Kind   { return KindStringList }
func (Text) Kind() Kind         { return KindText }

func (v VectorList) String() string { return quotedList(v) }
func (v StringList) String() string { return quotedList(v) }
func (v Text) String() string       { return string(v) }

func (v Scalar) String() string {
	return formatFloat(float64(v))
}

// Dims returns the array dimensions, the declared shape or the flat length
func (a NumericArray) Dims() []int {
	if len(a.Shape) == 0 {
		return []int{len(a.Data)}
	}
	return a.Shape
}

// At returns the element at the given row-major coordinates
func (a NumericArray) At(coords ...int) float64 {
	dims := a.Dims()
	idx := 0
	for i, c := range coords {
		idx = idx*dims[i] + c
	}
	return a.Data[idx]
}

// Row returns the i-th slice along the first axis as a flat copy
func (a NumericArray) Row(i int) []float64 {
	dims := a.Dims()
	if len(dims) == 1 {
		return []float64{a.Data[i]}
	}
	width := len(a.Data) / dims[0]
	return append([]float64(nil), a.Data[i*width:(i+1)*width]...)
}

func (a NumericArray) String() string {
	var b strings.Builder
	writeNested(&b, a.Data, a.Dims())
	return b.String()
}

func writeNested(b *strings.Builder, data []float64, dims []int) {
	b.WriteByte('[')
	if len(dims) == 1 {
		for i, f := range data {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatFloat(f))
		}
	} else {
		step := len(data) / dims[0]
		for i := 0; i < dims[0]; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNested(b, data[i*step:(i+1)*step], dims[1:])
		}
	}
	b.WriteByte(']')
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, " ") + "]"
}
