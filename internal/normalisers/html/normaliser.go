package html

import (
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/headings"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents. It strips navigation, script and
// style content, detects h1–h6 elements and cuts the text into segments
// annotated with the heading path in effect at each position.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	navTag        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	footerTag     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	headingTag    = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|br|hr|li|ul|ol|tr|td|th|blockquote|pre|table|section|article|main|aside)[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalise converts an HTML document into heading-annotated segments.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)

	// Drop non-content regions entirely.
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	doc := &domain.NormalizedDocument{SourceURI: raw.URI}

	var stack headings.Stack
	pos := 0
	for _, m := range headingTag.FindAllStringSubmatchIndex(content, -1) {
		// Text between the previous heading and this one belongs to the
		// heading stack as it stood before this heading.
		if text := cleanFragment(content[pos:m[0]]); text != "" {
			doc.Segments = append(doc.Segments, domain.Segment{
				HeadingPath: stack.Path(),
				Text:        text,
			})
		}

		level, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			level = 1
		}
		title := cleanFragment(content[m[4]:m[5]])
		stack.Push(level, title)
		pos = m[1]
	}

	if text := cleanFragment(content[pos:]); text != "" {
		doc.Segments = append(doc.Segments, domain.Segment{
			HeadingPath: stack.Path(),
			Text:        text,
		})
	}

	return doc, nil
}

// cleanFragment strips remaining tags from an HTML fragment and
// normalises whitespace, preserving paragraph breaks.
func cleanFragment(fragment string) string {
	fragment = blockElements.ReplaceAllString(fragment, "\n\n")
	fragment = allTags.ReplaceAllString(fragment, "")
	fragment = html.UnescapeString(fragment)
	fragment = multiSpaces.ReplaceAllString(fragment, " ")

	// Trim each line, keeping blank lines as paragraph separators.
	lines := strings.Split(fragment, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	fragment = strings.Join(lines, "\n")
	fragment = multiNewlines.ReplaceAllString(fragment, "\n\n")

	return strings.TrimSpace(fragment)
}
