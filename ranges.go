// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

// Range is the input source seen by the scan engine and the value readers.
//
// Positions are byte offsets counted from the first byte the range was
// created over. A range only moves forward, except through Rollback, and
// Rollback is only valid back to the position returned by the latest Mark.
//
// End of input is not an error: Peek and ReadUnit report it with a false
// second result.
type Range interface {
	// Pos returns the current position.
	Pos() int
	// AdvanceTo moves the position forward to pos. It fails, leaving the
	// position unchanged, if pos is behind the current position or past
	// the end of the input.
	AdvanceTo(pos int) error
	// Peek returns the next byte without consuming it.
	Peek() (byte, bool)
	// ReadUnit consumes and returns the next byte.
	ReadUnit() (byte, bool)
	// Window returns up to n bytes of lookahead without consuming them.
	// It returns fewer than n bytes only at the end of the input.
	// The slice is only valid until the next call on the range.
	Window(n int) []byte
	// Contiguous returns the rest of the input when the range is backed
	// by a single in-memory buffer.
	Contiguous() (string, bool)
	// Mark records the current position as the rollback floor and returns it.
	Mark() int
	// Rollback moves the position back to pos, which must lie between the
	// latest mark and the current position.
	Rollback(pos int) error
	// Err returns the first read error from a streaming backend.
	Err() error
}

// bufferCore implements Range over an in-memory string.
// Strings are immutable, so no copy is needed to borrow one.
type bufferCore struct {
	input string
	pos   int
	mark  int
}

func (b *bufferCore) Pos() int {
	return b.pos
}

func (b *bufferCore) AdvanceTo(pos int) error {
	if pos < b.pos || pos > len(b.input) {
		return outOfRange(b.pos, "advance to %d: outside [%d, %d]", pos, b.pos, len(b.input))
	}
	b.pos = pos
	return nil
}

func (b *bufferCore) Peek() (byte, bool) {
	if b.pos >= len(b.input) {
		return 0, false
	}
	return b.input[b.pos], true
}

func (b *bufferCore) ReadUnit() (byte, bool) {
	if b.pos >= len(b.input) {
		return 0, false
	}
	ch := b.input[b.pos]
	b.pos++
	return ch, true
}

func (b *bufferCore) Window(n int) []byte {
	end := b.pos + n
	if end > len(b.input) {
		end = len(b.input)
	}
	return []byte(b.input[b.pos:end])
}

func (b *bufferCore) Contiguous() (string, bool) {
	return b.input[b.pos:], true
}

func (b *bufferCore) Mark() int {
	b.mark = b.pos
	return b.mark
}

func (b *bufferCore) Rollback(pos int) error {
	if pos < b.mark || pos > b.pos {
		return errorf(EndOfRange, "rollback to %d: outside [%d, %d]", pos, b.mark, b.pos).at(b.pos)
	}
	b.pos = pos
	return nil
}

func (b *bufferCore) Err() error {
	return nil
}

// BufferRange is a range that owns its input buffer.
type BufferRange struct {
	bufferCore
}

// NewBufferRange returns a range over input.
func NewBufferRange(input string) *BufferRange {
	return &BufferRange{bufferCore: bufferCore{input: input}}
}

// NewBufferRangeBytes returns a range over a private copy of input.
func NewBufferRangeBytes(input []byte) *BufferRange {
	return &BufferRange{bufferCore: bufferCore{input: string(input)}}
}

// Rest returns the unconsumed input.
func (r *BufferRange) Rest() string {
	return r.input[r.pos:]
}

// BorrowedBufferRange is a range over a string owned by the caller.
//
// Sync writes the unconsumed suffix back through the caller's pointer.
// The entry points call it when a scan returns, so the caller's string
// always reflects what is left to scan.
//
// The caller must keep the pointer valid while the range is in use;
// this is not checked.
type BorrowedBufferRange struct {
	bufferCore
	src *string
}

// BorrowBuffer returns a range that reads from, and reports back to, *src.
func BorrowBuffer(src *string) *BorrowedBufferRange {
	if src == nil {
		panic("assert(src != nil)")
	}
	return &BorrowedBufferRange{bufferCore: bufferCore{input: *src}, src: src}
}

// Sync updates the caller's string to the unconsumed input.
func (r *BorrowedBufferRange) Sync() {
	*r.src = r.input[r.pos:]
}
