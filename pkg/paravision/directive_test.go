package paravision

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassifyDirective(t *testing.T) {
	tests := []struct {
		line string
		want Directive
	}{
		{
			line: "##$PVM_Matrix=( 2 )",
			want: Directive{Key: "Matrix", Shape: ShapeVector, Declared: []int{2}},
		},
		{
			line: "##$VisuCoreOrientation=( 1, 9 )\r\n",
			want: Directive{Key: "VisuCoreOrientation", Shape: ShapeVector, Declared: []int{1, 9}},
		},
		{
			line: "##$PVM_SPackArrGradOrient=(0.5, 1.5, ",
			want: Directive{Key: "SPackArrGradOrient", Shape: ShapeVector, Seed: "0.5, 1.5,"},
		},
		{
			line: "##$VisuCorePosition=(0.5 1.5 2.5)",
			want: Directive{Key: "VisuCorePosition", Shape: ShapeVector, Seed: "0.5 1.5 2.5"},
		},
		{
			line: "##$PVM_EchoTime=11",
			want: Directive{Key: "EchoTime", Shape: ShapeInline, Seed: "11"},
		},
		{
			line: "##$Method=<Bruker:RARE>",
			want: Directive{Key: "Method", Shape: ShapeInline, Seed: "<Bruker:RARE>"},
		},
		{
			line: "##ORIGIN=Bruker (BioSpin)",
			want: Directive{Key: "ORIGIN", Shape: ShapeStringList, Seed: "Bruker (BioSpin) "},
		},
		{
			line: "##TITLE=Parameter List, ParaVision 6.0.1",
			want: Directive{Key: "TITLE", Shape: ShapeFreeText, Seed: "Parameter List, ParaVision 6.0.1"},
		},
		{
			line: "##OWNER=a=b",
			want: Directive{Key: "OWNER", Shape: ShapeFreeText, Seed: "ab"},
		},
		{
			line: "##END=",
			want: Directive{Key: "END", Shape: ShapeFreeText, Seed: ""},
		},
		{
			line: "##$PVM_SliceGeoObj=(<Slice>, (1, 2))",
			want: Directive{Key: "SliceGeoObj", Shape: ShapeLiteral, Seed: "Slice  1  2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ClassifyDirective(tt.line)
			if err != nil {
				t.Fatalf("ClassifyDirective failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClassifyDirective(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyDirectiveContinues(t *testing.T) {
	for shape, want := range map[DirectiveShape]bool{
		ShapeVector:     true,
		ShapeStringList: true,
		ShapeInline:     false,
		ShapeFreeText:   false,
		ShapeLiteral:    false,
	} {
		if got := (Directive{Shape: shape}).Continues(); got != want {
			t.Errorf("%s.Continues() = %v, want %v", shape, got, want)
		}
	}
}

func TestClassifyDirectiveMalformedShape(t *testing.T) {
	_, err := ClassifyDirective("##$PVM_Matrix=( two )")
	if !errors.Is(err, ErrMalformedDirective) {
		t.Fatalf("Expected ErrMalformedDirective, got %v", err)
	}
}

func TestCleanKey(t *testing.T) {
	tests := map[string]string{
		"##$PVM_Matrix":  "Matrix",
		" $PVM_FovCm  ":  "FovCm",
		"##TITLE":        "TITLE",
		"VisuCoreExtent": "VisuCoreExtent",
	}
	for in, want := range tests {
		if got := CleanKey(in); got != want {
			t.Errorf("CleanKey(%q) = %q, want %q", in, got, want)
		}
	}
}
