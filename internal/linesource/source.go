// Package linesource turns raw log text into numbered lines.
//
// A Source remembers how much of the text it has already split, so feeding it
// a log that only grew at the end (a followed file, a tailed job) costs work
// proportional to the appended part.
package linesource

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/altinukshini/logview/internal/model"
)

const tabWidth = 4

type Source struct {
	consumed string // prefix of the last input, ending at a newline
	lines    []model.Line
}

func New() *Source {
	return &Source{}
}

// Process returns the lines of raw. The returned slice is never modified by
// later calls.
func (s *Source) Process(raw string) []model.Line {
	if !strings.HasPrefix(raw, s.consumed) {
		s.Reset()
	}

	rest := raw[len(s.consumed):]
	for {
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			break
		}
		s.lines = append(s.lines, newLine(len(s.lines)+1, rest[:nl]))
		rest = rest[nl+1:]
	}
	s.consumed = raw[:len(raw)-len(rest)]

	out := s.lines[:len(s.lines):len(s.lines)]
	if rest != "" {
		out = append(out, newLine(len(s.lines)+1, rest))
	}
	return out
}

// Reset drops all cached state.
func (s *Source) Reset() {
	s.consumed = ""
	s.lines = nil
}

func newLine(n int, raw string) model.Line {
	raw = strings.TrimSuffix(raw, "\r")
	raw = strings.ReplaceAll(raw, "\t", strings.Repeat(" ", tabWidth))
	return model.Line{
		Number: n,
		Raw:    raw,
		Text:   ansi.Strip(raw),
	}
}
