package logview

// Selection is the line the user clicked. It is independent of search state.
type Selection struct {
	line int
	set  bool
}

func (s *Selection) Select(lineNumber int) {
	s.line, s.set = lineNumber, true
}

func (s Selection) IsSelected(lineNumber int) bool {
	return s.set && s.line == lineNumber
}

func (s Selection) Line() (int, bool) {
	return s.line, s.set
}
