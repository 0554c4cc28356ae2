// Package chunker splits document text into overlapping chunks that fit
// the embedding window of the remote index.
//
// Text is split on the coarsest separator that occurs in it (paragraphs,
// then lines, then words, then characters). Pieces that are still too
// large are split again with the finer separators, and small pieces are
// merged back together up to the chunk size, carrying a tail of the
// previous chunk forward as overlap. Lengths are counted in runes.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum number of runes per chunk.
const DefaultChunkSize = 1536

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 100

// DefaultSeparators are tried in order; "" splits into single runes.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text into chunks. It is safe for concurrent use.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator list. An empty list is ignored.
func WithSeparators(separators ...string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = append([]string(nil), separators...)
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of text in document order.
// Empty or whitespace-only text yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// 1. Pick the coarsest separator present in the text
	separator := ""
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			finer = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	// 2. Split, keeping oversized pieces for recursion
	var chunks []string
	var good []string
	for _, piece := range splitKeep(text, separator) {
		if runeLen(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}

		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}

		if len(finer) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, finer)...)
		}
	}

	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}

	return chunks
}

// merge packs pieces into chunks of at most chunkSize runes, starting each
// new chunk with up to overlap runes from the end of the previous one.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)

		if total+n > s.chunkSize && len(window) > 0 {
			if chunk, ok := join(window); ok {
				chunks = append(chunks, chunk)
			}

			for total > s.overlap || (total+n > s.chunkSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}

		window = append(window, piece)
		total += n
	}

	if chunk, ok := join(window); ok {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitKeep splits text in front of every occurrence of sep, so each piece
// after the first starts with the separator. Occurrences may overlap, and
// empty pieces are dropped. An empty separator splits into runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for i, w := 0, 0; i < len(text); i += w {
			_, w = utf8.DecodeRuneInString(text[i:])
			pieces = append(pieces, text[i:i+w])
		}
		return pieces
	}

	var pieces []string
	start := 0
	for i := 1; i < len(text); i++ {
		if strings.HasPrefix(text[i:], sep) {
			pieces = append(pieces, text[start:i])
			start = i
		}
	}
	pieces = append(pieces, text[start:])

	out := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func join(pieces []string) (string, bool) {
	text := strings.TrimSpace(strings.Join(pieces, ""))
	return text, text != ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
