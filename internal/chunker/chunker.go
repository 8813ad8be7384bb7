// Package chunker splits normalised documents into bounded-size chunks
// that respect heading boundaries.
package chunker

import (
	"regexp"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// DefaultMaxSize is the default maximum chunk length in characters.
const DefaultMaxSize = 1000

// Chunker cuts each (heading-path, text) segment into chunks of at most
// maxSize characters. Splitting is purely a function of the input text
// and the size limit, so sequence indices — and with them the
// deterministic record ids — are stable across runs.
type Chunker struct {
	maxSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxSize sets the maximum chunk size in characters.
func WithMaxSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
	sentenceRun    = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// Chunk splits a normalised document. Within a heading section, text is
// cut at paragraph boundaries first; a paragraph that alone exceeds the
// limit is cut at sentence boundaries, and a sentence that still
// exceeds it is cut at word boundaries with the pieces flagged unsafe.
// A single word longer than the limit is emitted whole and flagged
// rather than corrupted by a mid-word split. The sequence index
// increases monotonically over the whole document in emission order.
func (c *Chunker) Chunk(doc *domain.NormalizedDocument) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var chunks []domain.Chunk
	seq := 0

	emit := func(path []string, text string, unsafe bool) {
		chunks = append(chunks, domain.Chunk{
			SourceURI:   doc.SourceURI,
			HeadingPath: path,
			Seq:         seq,
			Content:     text,
			Unsafe:      unsafe,
		})
		seq++
	}

	for _, seg := range doc.Segments {
		c.chunkSegment(seg, emit)
	}

	return chunks, nil
}

// chunkSegment accumulates paragraphs of one segment into chunks.
func (c *Chunker) chunkSegment(seg domain.Segment, emit func([]string, string, bool)) {
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		emit(seg.HeadingPath, buf.String(), false)
		buf.Reset()
	}

	for _, para := range splitParagraphs(seg.Text) {
		if len(para) > c.maxSize {
			// Oversized paragraph: close the open chunk, then fall back
			// to sentence-level splitting.
			flush()
			c.chunkParagraph(seg.HeadingPath, para, emit)
			continue
		}

		switch {
		case buf.Len() == 0:
			buf.WriteString(para)
		case buf.Len()+2+len(para) <= c.maxSize:
			buf.WriteString("\n\n")
			buf.WriteString(para)
		default:
			flush()
			buf.WriteString(para)
		}
	}
	flush()
}

// chunkParagraph accumulates sentences of an oversized paragraph.
func (c *Chunker) chunkParagraph(path []string, para string, emit func([]string, string, bool)) {
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		emit(path, buf.String(), false)
		buf.Reset()
	}

	for _, sentence := range splitSentences(para) {
		if len(sentence) > c.maxSize {
			flush()
			c.chunkSentence(path, sentence, emit)
			continue
		}

		switch {
		case buf.Len() == 0:
			buf.WriteString(sentence)
		case buf.Len()+1+len(sentence) <= c.maxSize:
			buf.WriteString(" ")
			buf.WriteString(sentence)
		default:
			flush()
			buf.WriteString(sentence)
		}
	}
	flush()
}

// chunkSentence is the last resort: cut an oversized sentence at word
// boundaries into pieces under the limit, each flagged boundary-unsafe.
// A single word above the limit is emitted whole, still flagged.
func (c *Chunker) chunkSentence(path []string, sentence string, emit func([]string, string, bool)) {
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		emit(path, buf.String(), true)
		buf.Reset()
	}

	for _, word := range strings.Fields(sentence) {
		if len(word) > c.maxSize {
			flush()
			emit(path, word, true)
			continue
		}

		switch {
		case buf.Len() == 0:
			buf.WriteString(word)
		case buf.Len()+1+len(word) <= c.maxSize:
			buf.WriteString(" ")
			buf.WriteString(word)
		default:
			flush()
			buf.WriteString(word)
		}
	}
	flush()
}

// splitParagraphs cuts text at blank-line boundaries.
func splitParagraphs(text string) []string {
	raw := paragraphBreak.Split(text, -1)
	paras := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitSentences cuts a paragraph at sentence terminators. Text after a
// final unterminated sentence is kept as its own entry.
func splitSentences(para string) []string {
	raw := sentenceRun.FindAllString(para, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
