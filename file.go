// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scnr

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

const (
	fileChunkSize = 4096
)

// File is a buffered, sequential source over an io.Reader.
//
// It reads ahead on demand and keeps bytes buffered until they are both
// consumed and below the rollback floor, so the position it reports is
// the logically consumed one, not how far the reader has been drained.
// Bytes read ahead but not consumed stay in the File and are seen by the
// next scan that uses it.
//
// Buffer invariants:
//
//	off <= keep <= pos <= off+len(buf)
//
// where buf[0] is the byte at logical offset off.
type File struct {
	name string
	r    io.Reader
	buf  []byte
	off  int
	pos  int
	keep int
	eof  bool
	err  error
}

// NewFile returns a File reading from r.
func NewFile(name string, r io.Reader) *File {
	return &File{name: name, r: r}
}

// OpenFile opens name on fs for scanning.
func OpenFile(fs afero.Fs, name string) (*File, error) {
	fd, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return NewFile(name, fd), nil
}

// Name returns the name the File was created with.
func (f *File) Name() string {
	return f.name
}

// Pos returns the number of bytes consumed so far.
func (f *File) Pos() int {
	return f.pos
}

// Buffered returns the bytes that have been read ahead but not consumed.
func (f *File) Buffered() []byte {
	return f.buf[f.pos-f.off:]
}

// Err returns the first read error other than io.EOF.
func (f *File) Err() error {
	return f.err
}

// Close closes the underlying reader if it is an io.Closer.
func (f *File) Close() error {
	if c, ok := f.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// end returns the logical offset just past the buffered bytes.
func (f *File) end() int {
	return f.off + len(f.buf)
}

// fill reads until the buffer holds the byte at logical offset need-1,
// or the reader is exhausted.
func (f *File) fill(need int) {
	for empty := 0; f.end() < need && !f.eof; {
		f.compact()
		if cap(f.buf)-len(f.buf) < fileChunkSize {
			grown := make([]byte, len(f.buf), 2*cap(f.buf)+fileChunkSize)
			copy(grown, f.buf)
			f.buf = grown
		}
		n, err := f.r.Read(f.buf[len(f.buf):cap(f.buf)])
		f.buf = f.buf[:len(f.buf)+n]
		if err != nil {
			f.eof = true
			if !errors.Is(err, io.EOF) {
				f.err = err
			}
		} else if n == 0 {
			if empty++; empty >= 100 {
				f.eof, f.err = true, io.ErrNoProgress
			}
		}
	}
}

// compact drops bytes that can no longer be reached by Rollback.
func (f *File) compact() {
	drop := f.keep - f.off
	if drop <= 0 || drop < len(f.buf)/2 {
		return
	}
	n := copy(f.buf, f.buf[drop:])
	f.buf = f.buf[:n]
	f.off += drop
}

// streamCore implements Range over a File.
type streamCore struct {
	f *File
}

func (s *streamCore) Pos() int {
	return s.f.pos
}

func (s *streamCore) AdvanceTo(pos int) error {
	if pos < s.f.pos {
		return outOfRange(s.f.pos, "advance to %d: behind current position %d", pos, s.f.pos)
	}
	s.f.fill(pos)
	if pos > s.f.end() {
		return outOfRange(s.f.pos, "advance to %d: past end of input at %d", pos, s.f.end())
	}
	s.f.pos = pos
	return nil
}

func (s *streamCore) Peek() (byte, bool) {
	s.f.fill(s.f.pos + 1)
	if s.f.pos >= s.f.end() {
		return 0, false
	}
	return s.f.buf[s.f.pos-s.f.off], true
}

func (s *streamCore) ReadUnit() (byte, bool) {
	ch, ok := s.Peek()
	if ok {
		s.f.pos++
	}
	return ch, ok
}

func (s *streamCore) Window(n int) []byte {
	s.f.fill(s.f.pos + n)
	start := s.f.pos - s.f.off
	end := start + n
	if end > len(s.f.buf) {
		end = len(s.f.buf)
	}
	return s.f.buf[start:end]
}

func (s *streamCore) Contiguous() (string, bool) {
	return "", false
}

func (s *streamCore) Mark() int {
	s.f.keep = s.f.pos
	return s.f.keep
}

func (s *streamCore) Rollback(pos int) error {
	if pos < s.f.keep || pos > s.f.pos {
		return errorf(EndOfRange, "rollback to %d: outside [%d, %d]", pos, s.f.keep, s.f.pos).at(s.f.pos)
	}
	s.f.pos = pos
	return nil
}

func (s *streamCore) Err() error {
	return s.f.err
}

// StreamRange is a range that owns a private File over a reader.
// Lookahead it buffers is discarded with it.
type StreamRange struct {
	streamCore
}

// NewStreamRange returns a range reading from r.
func NewStreamRange(r io.Reader) *StreamRange {
	return &StreamRange{streamCore: streamCore{f: NewFile("", r)}}
}

// Close closes the reader the range was created with, if it is an io.Closer.
func (r *StreamRange) Close() error {
	return r.f.Close()
}

// FileRange is a range over a File owned by the caller.
//
// Consumption is recorded in the File itself, so a second scan over the
// same File starts where the first one stopped and sees its lookahead.
// The caller must not use the File for anything else while a scan is running.
type FileRange struct {
	streamCore
}

// BorrowFile returns a range that reads from f.
func BorrowFile(f *File) *FileRange {
	if f == nil {
		panic("assert(f != nil)")
	}
	return &FileRange{streamCore: streamCore{f: f}}
}

// File returns the borrowed File.
func (r *FileRange) File() *File {
	return r.f
}
