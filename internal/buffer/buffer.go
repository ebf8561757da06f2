// Package buffer implements the gap-free, byte-oriented, multi-cursor text
// buffer that backs every editor in vtsh: the command line of a pty panel,
// its typescript, and the goto-line/search prompt. A Buffer owns its rows
// exclusively; cursors borrow a Buffer pointer and are otherwise
// independent of each other and of the buffer's own bookkeeping — callers
// that need coupled cursors (mark and dot, input and output cursor) update
// them explicitly.
package buffer

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/tleino/vtsh/internal/utf8scan"
)

// RowFlags marks out-of-band properties of a row. Only one bit is defined
// today.
type RowFlags uint8

// RowCmdline marks a typescript row as a submitted-command boundary.
const RowCmdline RowFlags = 1 << 0

// UpdateKind distinguishes kinds of buffer update events. Only one kind
// exists; it is kept as a type (rather than just documenting "it's always
// a line update") so a future update kind doesn't need a breaking API
// change.
type UpdateKind int

// UpdateLine is the only update kind: a contiguous row range changed.
const UpdateLine UpdateKind = 0

// Update describes the row/col span affected by a mutation. Columns are
// informational only — listeners decide what to redraw from the row
// range.
type Update struct {
	FromRow, FromCol int
	ToRow, ToCol     int
	Kind             UpdateKind
}

// Listener receives every buffer update, in program order, synchronously
// with the mutation. A listener must not mutate the buffer it is
// subscribed to: re-entrant mutation is forbidden.
type Listener func(Update)

// ListenerHandle identifies a registered Listener for removal. Go func
// values aren't comparable, so unlike the C original's callback-pointer
// identity, removal goes through this handle instead.
type ListenerHandle int

type row struct {
	bytes []byte
	flags RowFlags
}

type mark struct {
	row, offset int
}

// Buffer is an ordered sequence of rows of raw bytes with change-listener
// broadcast and an optional mark.
type Buffer struct {
	rows      []row
	listeners []listenerEntry
	nextID    ListenerHandle
	hasMark   bool
	mark      mark
}

type listenerEntry struct {
	id ListenerHandle
	fn Listener
}

// New returns an empty buffer (zero rows; a read lazily materializes one
// empty row, see Rows).
func New() *Buffer {
	return &Buffer{}
}

// Cursor is a (row, byte-offset) anchor into a Buffer. Offset must sit on
// a UTF-8 codepoint boundary of its row, or equal the row's length
// (end-of-line) — every mutator that moves a cursor maintains this except
// Insert, which may leave the offset mid-sequence after writing malformed
// UTF-8; the next movement through UpdateCursor snaps it back via utf8scan.
//
// Multiple cursors per buffer are legal and independent. The buffer does
// not track or move them automatically; callers that need coupled cursors
// (e.g. a panel's mark and its input cursor) update them in their own
// mutation wrappers.
type Cursor struct {
	Buf    *Buffer
	Row    int
	Offset int
}

// NewCursor returns a cursor aliasing b, positioned at (0, 0).
func (b *Buffer) NewCursor() *Cursor {
	return &Cursor{Buf: b}
}

// Rows returns the current row count. A buffer observed to have zero rows
// lazily gains one empty row (broadcasting a line update for it) so
// writers never see an empty buffer.
func (b *Buffer) Rows() int {
	if len(b.rows) == 0 {
		b.insertRow(0)
	}
	return len(b.rows)
}

// BytesAt returns row's byte length, or 0 if row is out of range.
func (b *Buffer) BytesAt(row int) int {
	if row < 0 || row >= len(b.rows) {
		return 0
	}
	return len(b.rows[row].bytes)
}

// U8StrAt returns a borrowed view of row's bytes, valid until the next
// mutation of that row, and whether row was in range.
func (b *Buffer) U8StrAt(row int) ([]byte, bool) {
	b.Rows() // lazily materialize row 0, matching the C original
	if row < 0 || row >= len(b.rows) {
		return nil, false
	}
	return b.rows[row].bytes, true
}

// RowFlags returns row's uflags, or 0 if out of range.
func (b *Buffer) RowFlags(row int) RowFlags {
	if row < 0 || row >= len(b.rows) {
		return 0
	}
	return b.rows[row].flags
}

// SetRowFlags overwrites row's uflags.
func (b *Buffer) SetRowFlags(row int, flags RowFlags) {
	if row < 0 || row >= len(b.rows) {
		return
	}
	b.rows[row].flags = flags
}

// U8StrBreak walks one codepoint of row starting at *offset (or, where
// the scanner flags a malformed sequence, the single offending byte),
// advancing *offset past it and returning that chunk plus whether the
// scanner flagged an error on it (consumers typically substitute U+FFFD
// for that byte when drawing). It returns ok=false when *offset is
// already at end of row, signalling "done".
func (b *Buffer) U8StrBreak(row int, offset *int) (chunk []byte, errFlag bool, ok bool) {
	b.Rows()
	if row < 0 || row >= len(b.rows) {
		return nil, false, false
	}
	rp := &b.rows[row]
	if *offset == len(rp.bytes) {
		return nil, false, false
	}

	begin := *offset
	if utf8scan.Incr(rp.bytes, offset, &errFlag) == 0 {
		return nil, false, false
	}
	return rp.bytes[begin:*offset], errFlag, true
}

// WordAt selects the whitespace-delimited word surrounding *offset,
// advancing *offset to point at the end of the word. If *offset is at or
// past end-of-line, it returns the whole row.
func (b *Buffer) WordAt(row int, offset *int) ([]byte, bool) {
	if row < 0 || row >= len(b.rows) {
		return nil, false
	}
	rp := &b.rows[row]
	s := rp.bytes
	if *offset >= len(s) {
		*offset = 0
		return s, true
	}

	orig := *offset
	for isSpaceAt(s, *offset) {
		if utf8scan.Decr(s, offset) == 0 {
			break
		}
	}
	if isSpaceAt(s, *offset) {
		*offset = orig
		return nil, false
	}

	orig = *offset
	for !isSpaceAt(s, *offset) {
		if utf8scan.Decr(s, offset) == 0 {
			break
		}
	}
	var begin int
	if isSpaceAt(s, *offset) {
		begin = *offset + 1
	} else {
		begin = *offset
	}
	*offset = orig

	for !isSpaceAt(s, *offset) {
		if utf8scan.Incr(s, offset, nil) == 0 {
			break
		}
	}
	end := *offset
	if begin > end || begin == end {
		*offset = orig
		return nil, false
	}
	return s[begin:end], true
}

func isSpaceAt(s []byte, offset int) bool {
	if offset < 0 || offset >= len(s) {
		return false
	}
	return unicode.IsSpace(rune(s[offset]))
}

// Match searches row's bytes for needle starting at *offset, returning
// true and snapping *offset to the UTF-8 boundary at or before the match
// start if found — a match landing inside a multibyte sequence is walked
// back to that sequence's start.
func (b *Buffer) Match(row int, needle []byte, offset *int) bool {
	if row < 0 || row >= len(b.rows) || len(needle) == 0 {
		return false
	}
	begin := *offset
	rp := &b.rows[row]
	if begin > len(rp.bytes) {
		return false
	}
	haystack := rp.bytes[begin:]
	idx := bytes.Index(haystack, needle)
	if idx < 0 {
		return false
	}

	target := idx
	walk := 0
	prev := 0
	for walk < target {
		n := utf8scan.Incr(haystack, &walk, nil)
		if n == 0 {
			break
		}
		if walk <= target {
			prev = walk
		}
	}
	if walk > target {
		walk = prev
	}
	*offset = begin + walk
	return true
}

// AddListener registers fn to be called with every subsequent update.
func (b *Buffer) AddListener(fn Listener) ListenerHandle {
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	return id
}

// RemoveListener unregisters the listener with the given handle. Removing
// an unknown handle is a no-op (mirrors the C original's "warn, don't
// crash" policy, minus the warning — callers own their own handles so this
// should never happen in practice).
func (b *Buffer) RemoveListener(h ListenerHandle) {
	for i, l := range b.listeners {
		if l.id == h {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

func (b *Buffer) broadcast(fromRow, fromCol, toRow, toCol int) {
	for _, l := range b.listeners {
		l.fn(Update{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol, Kind: UpdateLine})
	}
}

func (b *Buffer) broadcastRange(from, to int) {
	if from < to {
		for i := to; i >= from; i-- {
			b.broadcast(i, 0, i, 0)
		}
	} else {
		for i := from; i >= to; i-- {
			b.broadcast(i, 0, i, 0)
		}
	}
}

func (b *Buffer) insertRow(at int) {
	b.rows = append(b.rows, row{})
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = row{}
	b.broadcast(at, 0, len(b.rows)-1, 0)
}

// RemoveRow deletes row, joining nothing (callers that want a join use
// DeleteChar at end-of-line instead).
func (b *Buffer) RemoveRow(row int) {
	if len(b.rows) == 0 || row < 0 || row >= len(b.rows) {
		return
	}
	b.rows = append(b.rows[:row], b.rows[row+1:]...)

	from := row
	if from > 0 {
		from--
	}
	to := 0
	if len(b.rows) > 0 {
		to = len(b.rows) - 1
	}
	b.broadcast(from, 0, to, 0)
}

// ClearRow empties row's contents and uflags without removing it.
func (b *Buffer) ClearRow(row int) {
	if row < 0 || row >= len(b.rows) {
		return
	}
	b.rows[row].bytes = nil
	b.rows[row].flags = 0
	b.broadcast(row, 0, row, 0)
}

// Clear removes every row.
func (b *Buffer) Clear() {
	for len(b.rows) > 0 {
		b.RemoveRow(len(b.rows) - 1)
	}
	b.ClearMark(0)
}

// SetMark sets the mark at (row, offset). row must be an existing row.
func (b *Buffer) SetMark(row, offset int) {
	if row < 0 || row >= len(b.rows) {
		return
	}
	if offset < 0 || offset > len(b.rows[row].bytes) {
		return
	}
	b.ClearMark(row)
	b.hasMark = true
	b.mark = mark{row: row, offset: offset}
}

// HasMark reports whether a mark is set.
func (b *Buffer) HasMark() bool { return b.hasMark }

// ClearMark clears the mark, if any, broadcasting an update covering the
// region between the mark's old row and currentRow.
func (b *Buffer) ClearMark(currentRow int) {
	if !b.hasMark {
		return
	}
	b.hasMark = false
	b.broadcastRange(b.mark.row, currentRow)
	b.mark = mark{}
}

// IsMarked reports whether (row, offset) lies in the region [mark, dot)
// under row-major ordering, where (dotRow, dotOffset) is the far end of
// the region (the cursor).
func (b *Buffer) IsMarked(row, offset, dotRow, dotOffset int) bool {
	if !b.hasMark {
		return false
	}
	m := b.mark
	switch {
	case m.row > row:
		return false
	case m.row == row && dotRow > row && offset >= m.offset:
		return true
	case m.row < row && dotRow > row:
		return true
	case m.row < row && dotRow == row && offset < dotOffset:
		return true
	case m.row == row && dotRow == row && offset >= m.offset && offset < dotOffset:
		return true
	default:
		return false
	}
}

// SetCursor jumps cur to (row, offset), clamping row into [0, Rows()-1]
// (or 0 if empty) and offset into [0, row length].
func (b *Buffer) SetCursor(cur *Cursor, row, offset int) {
	n := b.Rows()
	if row < 0 || n == 0 {
		row = 0
	} else if row >= n {
		row = n - 1
	}

	rowLen := b.BytesAt(row)
	if offset > rowLen {
		offset = rowLen
	} else if offset < 0 {
		offset = 0
	}

	oldRow := cur.Row
	cur.Row = row
	cur.Offset = offset
	b.broadcastRange(oldRow, cur.Row)
}

// UpdateCursor steps cur by drow rows and dcol codepoints. Row movement
// clamps at the buffer's edges. Column movement wraps: stepping past
// end-of-line continues at the next row's column 0, stepping before
// column 0 continues at the previous row's end-of-line.
func (b *Buffer) UpdateCursor(cur *Cursor, drow, dcol int) {
	oldRow := cur.Row

	if drow < 0 {
		for ; drow < 0; drow++ {
			if cur.Row > 0 {
				cur.Row--
			}
		}
	} else {
		for ; drow > 0; drow-- {
			if cur.Row+1 < len(b.rows) {
				cur.Row++
			}
		}
	}

	if dcol < 0 {
		for ; dcol < 0; dcol++ {
			if cur.Offset > 0 {
				rp := b.rows[cur.Row].bytes
				utf8scan.Decr(rp, &cur.Offset)
			} else if cur.Row > 0 {
				cur.Row--
				cur.Offset = len(b.rows[cur.Row].bytes)
			}
		}
	} else {
		for ; dcol > 0; dcol-- {
			rp := b.rows[cur.Row].bytes
			if cur.Offset < len(rp) {
				utf8scan.Incr(rp, &cur.Offset, nil)
			} else if cur.Row+1 < len(b.rows) {
				cur.Row++
				cur.Offset = 0
			}
		}
	}

	b.broadcastRange(oldRow, cur.Row)
}

// Insert writes s at cur's position. A '\n' byte splits the row at the
// cursor and creates a new row below it, moving the cursor to column 0 of
// the new row; any other byte (including a malformed-UTF-8 lead or
// continuation byte) is appended verbatim — raw Insert does not validate
// UTF-8, it only ever gets interpreted as such for display and movement.
// Insert is all-or-nothing: on error the cursor is left unchanged.
func (b *Buffer) Insert(cur *Cursor, s []byte) error {
	fromRow := cur.Row
	b.Rows()

	offset := cur.Offset
	for len(s) > 0 {
		ch := s[0]
		s = s[1:]
		if ch == '\n' {
			tail := append([]byte(nil), b.rows[cur.Row].bytes[offset:]...)
			b.rows[cur.Row].bytes = b.rows[cur.Row].bytes[:offset]
			b.insertRowWithContent(cur.Row+1, tail)
			cur.Row++
			cur.Offset = 0
			offset = 0
			continue
		}
		b.insertByteAt(cur.Row, &offset, ch)
	}
	cur.Offset = offset

	b.broadcast(fromRow, 0, cur.Row, 0)
	return nil
}

func (b *Buffer) insertRowWithContent(at int, content []byte) {
	b.rows = append(b.rows, row{})
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = row{bytes: content}
}

func (b *Buffer) insertByteAt(rowIdx int, offset *int, ch byte) {
	rp := &b.rows[rowIdx]
	rp.bytes = append(rp.bytes, 0)
	copy(rp.bytes[*offset+1:], rp.bytes[*offset:])
	rp.bytes[*offset] = ch

	if b.hasMark && b.mark.row == rowIdx && *offset < b.mark.offset {
		b.mark.offset++
	}

	*offset++
}

// EraseEOL truncates cur's row at cur's offset.
func (b *Buffer) EraseEOL(cur *Cursor) {
	if len(b.rows) == 0 {
		return
	}
	rp := &b.rows[cur.Row]
	if cur.Offset > len(rp.bytes) {
		return
	}
	rp.bytes = rp.bytes[:cur.Offset]
	b.broadcast(cur.Row, 0, cur.Row, 0)
}

// DeleteChar forward-deletes one codepoint at cur, joining with the next
// row if cur is at end-of-line.
func (b *Buffer) DeleteChar(cur *Cursor) {
	if len(b.rows) == 0 {
		return
	}

	if cur.Offset == len(b.rows[cur.Row].bytes) && len(b.rows) > 1 {
		if cur.Row+1 < len(b.rows) {
			eol := len(b.rows[cur.Row].bytes)
			if b.hasMark && b.mark.row == cur.Row+1 {
				b.mark.row = cur.Row
				b.mark.offset += eol
			}
			b.rows[cur.Row].bytes = append(b.rows[cur.Row].bytes, b.rows[cur.Row+1].bytes...)
			b.RemoveRow(cur.Row + 1)
		}
		return
	}

	if cur.Row >= len(b.rows) {
		return
	}

	offset := cur.Offset
	rp := &b.rows[cur.Row]
	next := offset
	n := utf8scan.Incr(rp.bytes, &next, nil)

	if b.hasMark && b.mark.row == cur.Row {
		if offset < b.mark.offset {
			b.mark.offset -= n
		} else if offset == b.mark.offset {
			b.ClearMark(cur.Row)
		}
	}

	if n > 0 {
		rp.bytes = append(rp.bytes[:cur.Offset], rp.bytes[next:]...)
	}

	b.broadcast(cur.Row, 0, cur.Row, 0)
}

// Erase backward-deletes one codepoint before cur, joining with the
// previous row if cur is at column 0.
func (b *Buffer) Erase(cur *Cursor) {
	if cur.Row == 0 && cur.Offset == 0 {
		return
	}
	b.UpdateCursor(cur, 0, -1)
	b.DeleteChar(cur)
}

// LoadText splits s on '\n' and inserts it through cur, the same path a
// file load or a pipe-to-typescript write uses.
func (b *Buffer) LoadText(cur *Cursor, s string) error {
	return b.Insert(cur, []byte(s))
}

// Text concatenates every row's bytes with '\n', matching how a panel
// saves its typescript back to a file.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, r := range b.rows {
		sb.Write(r.bytes)
		if i < len(b.rows)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
