// Package headings implements the running heading-path stack shared by
// the normalisers.
package headings

// Stack tracks the enclosing heading titles while walking a document
// top to bottom. Pushing a heading of a given level pops any deeper or
// equal levels first, so the stack always mirrors the section nesting
// at the current position.
type Stack struct {
	entries []entry
}

type entry struct {
	level int
	title string
}

// Push records a heading of the given level (1 = shallowest).
func (s *Stack) Push(level int, title string) {
	for len(s.entries) > 0 && s.entries[len(s.entries)-1].level >= level {
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, entry{level: level, title: title})
}

// Path returns a copy of the current heading titles from the document
// root down to the current section. Empty for content before the first
// heading.
func (s *Stack) Path() []string {
	if len(s.entries) == 0 {
		return nil
	}
	path := make([]string, len(s.entries))
	for i, e := range s.entries {
		path[i] = e.title
	}
	return path
}

// Depth returns how many headings enclose the current position.
func (s *Stack) Depth() int {
	return len(s.entries)
}
