package paravision

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineLength bounds a single scanned line; parameter files wrap long
// arrays, so real lines stay far below this.
const maxLineLength = 1 << 20

// Parse reads a whole parameter file and assembles its key/value map
func Parse(r io.Reader) (Map, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading parameter file: %w", err)
	}

	return ParseLines(lines)
}

// ParseLines assembles a key/value map from the lines of one parameter file.
//
// Only lines with the "##" marker start a key. Vector and string-list keys
// collect the following lines, trimmed and joined by single spaces, until a
// line containing "##" or "$$". That line is not part of the value; a "$$"
// line is then skipped as it carries no marker of its own. A key seen twice
// keeps its last value.
func ParseLines(lines []string) (Map, error) {
	params := make(Map)
	cursor := newLineCursor(lines)

	for {
		line, ok := cursor.next()
		if !ok {
			break
		}
		if !HasDirectiveMarker(line.Text) {
			continue
		}

		directive, err := ClassifyDirective(line.Text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.Index+1, err)
		}

		if directive.Shape == ShapeLiteral {
			params[directive.Key] = Text(directive.Seed)
			continue
		}

		block := directive.Seed
		if directive.Continues() {
			var b strings.Builder
			b.WriteString(directive.Seed)
			for _, cont := range cursor.takeUntil(isBoundary) {
				b.WriteString(strings.TrimSpace(cont.Text))
				b.WriteByte(' ')
			}
			block = b.String()
		}

		value, err := ParseBlock(block, directive.Declared)
		if err != nil {
			return nil, fmt.Errorf("line %d: key %q: %w", line.Index+1, directive.Key, err)
		}
		params[directive.Key] = value
	}

	return params, nil
}
