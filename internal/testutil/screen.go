package testutil

import "strings"

// Screen composes a sequence of renderers into the expected output of a
// CellsToString call, so golden-style tests can express "this row, then
// that row" instead of embedding a literal multi-line string.
type Screen []renderer

func (ts Screen) String() string {
	s := ""
	for _, r := range ts {
		s += r.render()
	}
	return s
}

type renderer interface {
	render() string
}

// Raw is rendered verbatim.
type Raw string

func (x Raw) render() string { return string(x) }

// Wide2 represents a two-column wide character the way tcell reports it:
// the rune itself, then 'X' for the second covered column.
type Wide2 rune

func (x Wide2) render() string { return string(x) + "X" }

// Endline is W blank columns followed by a newline.
type Endline struct{ W int }

func (x Endline) render() string { return Empty{x.W}.render() + "\n" }

// Empty is W blank columns with no trailing newline.
type Empty struct{ W int }

func (x Empty) render() string { return strings.Repeat(" ", x.W) }

// Rows is H blank rows of W columns each.
type Rows struct{ W, H int }

func (x Rows) render() string {
	return strings.Repeat(strings.Repeat(" ", x.W)+"\n", x.H)
}
