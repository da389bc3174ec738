package core

// textreader.go provides the readers applied to delimited-text uploads before
// they reach encoding/csv:
//
//   - skipBOM: drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) added by Windows programs
//   - utf8Sanitizer: replaces invalid UTF-8 bytes with '?' while streaming
//   - sizeLimitedReader: counts bytes and fails once a limit is exceeded

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the BOM of r, if any.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// sanitizerChunk is how much the sanitizer reads from its source at a time.
const sanitizerChunk = 4096

// maxEmptyReads bounds consecutive reads that return no data and no error.
const maxEmptyReads = 100

// utf8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes with '?'.
//
// Source bytes land in buf; a multi-byte sequence split across reads stays at
// the start of buf until the rest arrives. Sanitized bytes wait in out, so any
// caller buffer size, down to one byte, makes progress.
type utf8Sanitizer struct {
	reader io.Reader
	buf    []byte
	carry  int // bytes of an incomplete sequence at buf[:carry]
	sbuf   []byte
	out    []byte
	err    error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		reader: r,
		buf:    make([]byte, sanitizerChunk+utf8.UTFMax),
		sbuf:   make([]byte, sanitizerChunk+utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for empty := 0; len(s.out) == 0; empty++ {
		if s.err != nil {
			return 0, s.err
		}
		if empty == maxEmptyReads {
			return 0, io.ErrNoProgress
		}
		s.fill()
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads the next chunk of the source into out. Any read error ends the
// stream: a sequence still incomplete at that point is invalid.
func (s *utf8Sanitizer) fill() {
	n, err := s.reader.Read(s.buf[s.carry:])
	n += s.carry
	s.carry = 0
	if err != nil {
		s.err = err
	}

	data := s.buf[:n]
	if isASCII(data) {
		s.out = data
		return
	}
	s.out = s.sanitize(data, s.err != nil)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize copies data into sbuf with every invalid byte replaced by '?'.
// Unless atEOF, an incomplete trailing sequence is moved to the start of buf.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) []byte {
	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.carry = copy(s.buf, data[read:])
			break
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			s.sbuf[write] = '?'
			write++
			read++
			continue
		}
		write += copy(s.sbuf[write:], data[read:read+size])
		read += size
	}
	return s.sbuf[:write]
}

// sizeLimitedReader counts the bytes read and returns ErrFileTooLarge as soon
// as more than limit bytes have been seen.
type sizeLimitedReader struct {
	reader io.Reader
	limit  int64
	read   int64
}

func (r *sizeLimitedReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read += int64(n)
	if r.read > r.limit {
		return n, ErrFileTooLarge
	}
	return n, err
}
