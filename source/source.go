// Package source defines source file type.
package source

import (
	"bytes"
	"os"
	"sort"
	"unicode/utf8"
)

// Source holds the name and the content of a single source unit.
// Source is immutable after creation and safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates new Source. content must be a valid UTF-8 text, BOM is stripped.
func New(name string, content []byte) *Source {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, 1, lineCnt)
	for i, c := range content {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// NewString creates new Source from a string.
func NewString(name, content string) *Source {
	return New(name, []byte(content))
}

// ReadFile creates new Source holding the content of named file.
func ReadFile(name string) (*Source, error) {
	content, e := os.ReadFile(name)
	if e != nil {
		return nil, e
	}

	return New(name, content), nil
}

// Name returns source name.
func (s *Source) Name() string {
	return s.name
}

// Content returns source content, must not be modified.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts byte offset to 1-based line and column (in runes) numbers.
// Offsets outside the content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos converts 1-based line and column numbers to byte offset.
// Column is measured in bytes, out of range values are clamped.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// Pos describes a position inside some source.
type Pos struct {
	src             *Source
	pos, line, col int
}

// NewPos creates position for given byte offset.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

// Source returns source or nil.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Pos returns byte offset.
func (p Pos) Pos() int {
	return p.pos
}

// Line returns 1-based line number or 0.
func (p Pos) Line() int {
	return p.line
}

// Col returns 1-based column number or 0.
func (p Pos) Col() int {
	return p.col
}
