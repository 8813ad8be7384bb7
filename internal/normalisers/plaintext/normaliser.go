package plaintext

import (
	"context"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/headings"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and markdown documents. Markdown-style
// `#`-prefixed lines are treated as headings with the same stack
// algorithm the HTML normaliser uses; a document without headings
// yields a single segment with an empty heading path.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts text into heading-annotated segments.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := &domain.NormalizedDocument{SourceURI: raw.URI}

	var stack headings.Stack
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		doc.Segments = append(doc.Segments, domain.Segment{
			HeadingPath: stack.Path(),
			Text:        text,
		})
	}

	for _, line := range strings.Split(string(raw.Content), "\n") {
		if level, title, ok := parseHeading(line); ok {
			flush()
			stack.Push(level, title)
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	return doc, nil
}

// parseHeading recognises a markdown ATX heading: one to six leading
// `#` characters followed by a space and a title.
func parseHeading(line string) (level int, title string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return 0, "", false
	}

	level = 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 || level == len(trimmed) || trimmed[level] != ' ' {
		return 0, "", false
	}

	title = strings.TrimSpace(trimmed[level:])
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}
