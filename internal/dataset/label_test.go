package dataset

import (
	"image"
	"strings"
	"testing"
)

func TestLabel_String(t *testing.T) {
	p := Placement{ClassIndex: 7, X: 40, Y: 40, Width: 20, Height: 20, CanvasW: 100, CanvasH: 100}
	l := Label{ClassIndex: p.ClassIndex, Box: p.Box()}

	if got, want := l.String(), "7 0.5 0.5 0.2 0.2"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestFormatLabels(t *testing.T) {
	labels := []Label{
		{ClassIndex: 0, Box: BoundingBox{0.5, 0.5, 0.2, 0.2}},
		{ClassIndex: 3, Box: BoundingBox{0.25, 0.75, 0.1, 0.05}},
	}
	got := FormatLabels(labels)
	want := "0 0.5 0.5 0.2 0.2\n3 0.25 0.75 0.1 0.05"
	if got != want {
		t.Errorf("FormatLabels = %q, want %q", got, want)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("label content should not end with a newline")
	}
	if FormatLabels(nil) != "" {
		t.Error("no labels should format as empty content")
	}
}

func TestParseLabels_RoundTrip(t *testing.T) {
	rng := testRand()
	icon := solidIcon(33, 17, 4)
	canvas := image.Pt(997, 613)

	var labels []Label
	var placements []Placement
	for i := 0; i < 50; i++ {
		p, err := Place(rng, icon, canvas)
		if err != nil {
			t.Fatal(err)
		}
		placements = append(placements, p)
		labels = append(labels, Label{ClassIndex: p.ClassIndex, Box: p.Box()})
	}

	parsed, err := ParseLabels(strings.NewReader(FormatLabels(labels)))
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if len(parsed) != len(labels) {
		t.Fatalf("parsed %d labels, want %d", len(parsed), len(labels))
	}
	for i, l := range parsed {
		if l != labels[i] {
			t.Errorf("label %d: got %+v, want %+v", i, l, labels[i])
		}
		if got := l.Box.Pixels(canvas); got != placements[i].Rect() {
			t.Errorf("label %d: pixels %v, want %v", i, got, placements[i].Rect())
		}
	}
}

func TestParseLabels_SkipsBlankLines(t *testing.T) {
	parsed, err := ParseLabels(strings.NewReader("\n1 0.5 0.5 0.1 0.1\n\n2 0.1 0.1 0.1 0.1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 2 {
		t.Errorf("parsed %d labels, want 2", len(parsed))
	}
}

func TestParseLabel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "1 0.5 0.5 0.1"},
		{"too many fields", "1 0.5 0.5 0.1 0.1 0.1"},
		{"bad index", "x 0.5 0.5 0.1 0.1"},
		{"float index", "1.0 0.5 0.5 0.1 0.1"},
		{"bad coordinate", "1 0.5 half 0.1 0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLabel(tt.line); err == nil {
				t.Errorf("ParseLabel(%q) should fail", tt.line)
			}
		})
	}
}
