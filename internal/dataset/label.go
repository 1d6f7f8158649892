package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Label is one annotated object: a class index and its normalized box.
type Label struct {
	ClassIndex int
	Box        BoundingBox
}

// String formats the label as a YOLO text line:
// "<class> <x_center> <y_center> <width> <height>".
func (l Label) String() string {
	return strconv.Itoa(l.ClassIndex) + " " +
		formatFloat(l.Box.XCenter) + " " +
		formatFloat(l.Box.YCenter) + " " +
		formatFloat(l.Box.Width) + " " +
		formatFloat(l.Box.Height)
}

// formatFloat uses the shortest decimal that round-trips, so 0.5 is "0.5"
// and not "0.500000".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatLabels joins labels into label-file content, one line per label in
// placement order, with no trailing newline.
func FormatLabels(labels []Label) string {
	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

// ParseLabel parses a single YOLO text line.
func ParseLabel(line string) (Label, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Label{}, fmt.Errorf("label line %q: expected 5 fields, got %d", line, len(fields))
	}

	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return Label{}, fmt.Errorf("label line %q: bad class index: %w", line, err)
	}

	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Label{}, fmt.Errorf("label line %q: bad coordinate: %w", line, err)
		}
		vals[i] = v
	}

	return Label{
		ClassIndex: idx,
		Box: BoundingBox{
			XCenter: vals[0],
			YCenter: vals[1],
			Width:   vals[2],
			Height:  vals[3],
		},
	}, nil
}

// ParseLabels reads label-file content. Blank lines are ignored.
func ParseLabels(r io.Reader) ([]Label, error) {
	var labels []Label
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		l, err := ParseLabel(line)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}
