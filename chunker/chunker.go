package chunker

import (
	"fmt"
	"strings"

	"github.com/sloppycoder/sec-doc-tool/nlp"
	"github.com/sloppycoder/sec-doc-tool/textnorm"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 2000

	// DefaultMinChunkLength is the floor below which assembled chunks
	// are discarded.
	DefaultMinChunkLength = 100

	// DefaultTableGapThreshold is the largest run of non-table lines
	// tolerated between two table rows before gap compression kicks in.
	DefaultTableGapThreshold = 2
)

// pieceSeparator joins content pieces inside a chunk.
const pieceSeparator = "\n\n"

// Segmenter is the sentence oracle the chunker depends on. nlp.Segmenter
// satisfies it; tests substitute deterministic stubs.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// Chunker splits text into chunks of at most ChunkSize characters, except
// when a single atomic piece (one table block or one unsplittable
// line/sentence) alone exceeds the limit, in which case that piece becomes
// its own oversized chunk rather than being truncated.
type Chunker struct {
	chunkSize    int
	minChunkLen  int
	gapThreshold int
	seg          Segmenter
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithMinChunkLength sets the minimum retained chunk length.
func WithMinChunkLength(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minChunkLen = n
		}
	}
}

// WithTableGapThreshold sets the largest tolerated gap between table rows.
func WithTableGapThreshold(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.gapThreshold = n
		}
	}
}

// WithSegmenter injects the sentence oracle.
func WithSegmenter(s Segmenter) Option {
	return func(c *Chunker) {
		if s != nil {
			c.seg = s
		}
	}
}

// New returns a Chunker with defaults applied. Unless overridden with
// WithSegmenter, the sentence model is the worker-local lazy handle from
// the nlp package, loaded on first use.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:    DefaultChunkSize,
		minChunkLen:  DefaultMinChunkLength,
		gapThreshold: DefaultTableGapThreshold,
		seg:          nlp.NewLazy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk sanitizes content and repacks it into ordered chunks. Every
// non-noise line of the sanitized input ends up in exactly one chunk,
// verbatim or as part of a sentence. The only possible error is a failed
// sentence oracle.
func (c *Chunker) Chunk(content string) ([]string, error) {
	sanitized := textnorm.Sanitize(content)
	if sanitized == "" {
		return nil, nil
	}

	var (
		chunks  []string
		current []string
		size    int
	)

	for _, paragraph := range strings.Split(sanitized, "\n\n") {
		lines := usableLines(paragraph)

		var (
			tableBuf []string
			pending  []string
		)

		for _, line := range lines {
			isRow, isSeparator := checkTableRow(line)
			if isRow {
				if len(pending) > 0 {
					if err := c.packProse(pending, &current, &size, &chunks); err != nil {
						return nil, err
					}
					pending = nil
				}
				// separator rows carry no content and are skipped
				if !isSeparator {
					tableBuf = append(tableBuf, line)
				}
				continue
			}

			if len(tableBuf) > 0 {
				c.appendPiece(strings.Join(tableBuf, "\n"), &current, &size, &chunks)
				tableBuf = nil
			}
			pending = append(pending, line)
		}

		if len(pending) > 0 {
			if err := c.packProse(pending, &current, &size, &chunks); err != nil {
				return nil, err
			}
		}
		if len(tableBuf) > 0 {
			c.appendPiece(strings.Join(tableBuf, "\n"), &current, &size, &chunks)
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, pieceSeparator))
	}

	var out []string
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk)) > c.minChunkLen {
			out = append(out, c.compressTableGaps(chunk))
		}
	}
	return out, nil
}

// packProse packs a batch of consecutive prose lines. Lines that pass the
// sentence-splitting heuristics are segmented by the oracle in one combined
// call; the rest take the fast path and are appended whole.
func (c *Chunker) packProse(lines []string, current *[]string, size *int, chunks *[]string) error {
	var toSplit []string
	splitIdx := make([]int, 0, len(lines))
	for i, line := range lines {
		if needsSentenceSplitting(line) {
			toSplit = append(toSplit, line)
			splitIdx = append(splitIdx, i)
		}
	}

	sentencesByLine := map[int][]string{}
	if len(toSplit) > 0 {
		attributed, err := c.segmentBatch(toSplit)
		if err != nil {
			return fmt.Errorf("segmenting prose batch: %w", err)
		}
		for batchPos, lineIdx := range splitIdx {
			sentencesByLine[lineIdx] = attributed[batchPos]
		}
	}

	for i, line := range lines {
		sents, ok := sentencesByLine[i]
		if !ok {
			c.appendPiece(line, current, size, chunks)
			continue
		}
		for _, sent := range sents {
			if strings.TrimSpace(sent) != "" {
				c.appendPiece(sent, current, size, chunks)
			}
		}
	}
	return nil
}

// appendPiece adds one atomic content piece to the chunk under
// construction, closing it first when the piece would push it past the
// size limit. The separator joining pieces counts toward the limit, so
// the assembled chunk never exceeds it unless a lone piece does.
func (c *Chunker) appendPiece(piece string, current *[]string, size *int, chunks *[]string) {
	n := len(piece)
	if len(*current) > 0 {
		n += len(pieceSeparator)
	}
	if *size+n > c.chunkSize && len(*current) > 0 {
		*chunks = append(*chunks, strings.Join(*current, pieceSeparator))
		*current = []string{piece}
		*size = len(piece)
		return
	}
	*current = append(*current, piece)
	*size += n
}

// usableLines trims a paragraph into its non-noise lines.
func usableLines(paragraph string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(paragraph), "\n") {
		line = strings.TrimSpace(line)
		if !isNoiseLine(line) {
			lines = append(lines, line)
		}
	}
	return lines
}
