package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Source yields the raw integer stream one element at a time.
// Next returns io.EOF once the stream is exhausted.
type Source interface {
	Next() (int64, error)
}

// SliceSource reads raw codes from an in-memory slice.
type SliceSource struct {
	codes []int64
	pos   int
}

// NewSliceSource creates a Source over codes. The slice is not copied.
func NewSliceSource(codes []int64) *SliceSource {
	return &SliceSource{codes: codes}
}

// Next implements Source.
func (s *SliceSource) Next() (int64, error) {
	if s.pos >= len(s.codes) {
		return 0, io.EOF
	}
	v := s.codes[s.pos]
	s.pos++
	return v, nil
}

// ChanSource reads raw codes from a channel fed by an upstream producer.
// The stream ends when the channel is closed.
type ChanSource struct {
	ch <-chan int64
}

// NewChanSource creates a Source that receives from ch.
func NewChanSource(ch <-chan int64) *ChanSource {
	return &ChanSource{ch: ch}
}

// Next implements Source. It blocks until the producer sends or closes.
func (s *ChanSource) Next() (int64, error) {
	v, ok := <-s.ch
	if !ok {
		return 0, io.EOF
	}
	return v, nil
}

// ReaderSource reads a textual raw stream: decimal integers separated by
// whitespace and/or commas. A '#' starts a comment that runs to the end
// of the line. Input is consumed line by line as elements are requested.
type ReaderSource struct {
	scanner *bufio.Scanner
	pending []string
	line    int
	err     error
}

// NewReaderSource creates a Source that parses r lazily.
func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReaderSource{scanner: sc}
}

// Next implements Source.
func (s *ReaderSource) Next() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	for len(s.pending) == 0 {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				s.err = fmt.Errorf("read raw stream: %w", err)
			} else {
				s.err = io.EOF
			}
			return 0, s.err
		}
		s.line++
		s.pending = splitFields(s.scanner.Text())
	}

	tok := s.pending[0]
	s.pending = s.pending[1:]
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		s.err = fmt.Errorf("line %d: invalid integer %q", s.line, tok)
		return 0, s.err
	}
	return v, nil
}

func splitFields(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
