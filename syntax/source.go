package syntax

import (
	"sort"

	"github.com/pontaoski/hackfront/types"
)

type SourceText struct {
	Path  string
	Text  string
	lines []int
}

func NewSourceText(path, text string) *SourceText {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &SourceText{Path: path, Text: text, lines: lines}
}

func (s *SourceText) Slice(span types.Span) string {
	from, to := span.Offset, span.End()
	if from > len(s.Text) {
		from = len(s.Text)
	}
	if to > len(s.Text) {
		to = len(s.Text)
	}
	return s.Text[from:to]
}

// Position resolves a byte offset to a one-based line and column.
func (s *SourceText) Position(offset int) types.Position {
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return types.Position{
		Line:     line + 1,
		Column:   offset - s.lines[line] + 1,
		Filename: s.Path,
	}
}

func (s *SourceText) Pos(span types.Span) types.Pos {
	return types.Pos{
		Span: span,
		From: s.Position(span.Offset),
		To:   s.Position(span.End()),
	}
}
