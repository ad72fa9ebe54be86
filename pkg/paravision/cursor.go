package paravision

// RawLine is one line of a parameter file with its 0-based position
type RawLine struct {
	Index int
	Text  string
}

// lineCursor walks the lines of one file front to back
type lineCursor struct {
	lines []string
	pos   int
}

func newLineCursor(lines []string) *lineCursor {
	return &lineCursor{lines: lines}
}

// next returns the line under the cursor and advances past it
func (c *lineCursor) next() (RawLine, bool) {
	if c.pos >= len(c.lines) {
		return RawLine{}, false
	}
	line := RawLine{Index: c.pos, Text: c.lines[c.pos]}
	c.pos++
	return line, true
}

// takeUntil returns the lines before the first one matching stop and leaves
// the cursor on that line, so it is read again by the next call to next.
func (c *lineCursor) takeUntil(stop func(string) bool) []RawLine {
	var taken []RawLine
	for c.pos < len(c.lines) && !stop(c.lines[c.pos]) {
		taken = append(taken, RawLine{Index: c.pos, Text: c.lines[c.pos]})
		c.pos++
	}
	return taken
}
