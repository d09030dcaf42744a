package syntax

import "sort"

// LineIndex maps byte offsets of a text to 1-based line and column numbers.
// Columns count bytes, so a multi-byte character advances the column by its UTF-8 length.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex records where each line of text begins. "\n", "\r\n" and a
// lone "\r" all end a line.
func NewLineIndex(text []byte) *LineIndex {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}

			starts = append(starts, i+1)
		}
	}

	return &LineIndex{starts: starts, size: len(text)}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position converts offset to a 1-based (line, column) pair. Offsets outside
// the text are clamped to its bounds.
func (li *LineIndex) Position(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}

	if offset > li.size {
		offset = li.size
	}

	// index of the last line start <= offset
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1

	return line + 1, offset - li.starts[line] + 1
}
