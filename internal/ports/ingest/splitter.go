package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitter reassembles whitespace-separated tokens from a byte stream whose
// reads may cut a token in two. The recognizer writes bare tokens with no
// delimiter, so a trailing fragment that is already complete is released at
// once and anything else waits for the next read.
type splitter struct {
	partial  string
	complete func(token string) bool
}

func (s *splitter) feed(chunk string) []string {
	fields := strings.Fields(chunk)
	if s.partial != "" {
		joined := len(fields) > 0 && !startsWithSpace(chunk)
		switch {
		case joined && (s.complete(s.partial+fields[0]) || !s.complete(fields[0])):
			fields[0] = s.partial + fields[0]
		default:
			fields = append([]string{s.partial}, fields...)
		}
		s.partial = ""
	}
	if n := len(fields); n > 0 && !endsWithSpace(chunk) && !s.complete(fields[n-1]) {
		if len(fields[n-1]) <= maxTokenSize {
			s.partial = fields[n-1]
		}
		fields = fields[:n-1]
	}
	return fields
}

// flush releases whatever fragment is still held when the stream ends.
func (s *splitter) flush() []string {
	if s.partial == "" {
		return nil
	}
	out := []string{s.partial}
	s.partial = ""
	return out
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
