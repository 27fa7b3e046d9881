// Package secdoc turns SEC EDGAR filings into page-aligned text chunks
// suitable for retrieval and model tagging.
//
// Basic usage:
//
//	store, _ := storage.Open(cfg.StoragePrefix)
//	builder := secdoc.NewBuilder(
//	    secdoc.WithStore(store),
//	    secdoc.WithEdgarClient(edgar.NewClient(edgar.WithStore(store))),
//	)
//	doc, err := builder.Build(ctx, "1002427", "0001133228-24-004879")
//	if err != nil {
//	    // handle error
//	}
//	for i, chunk := range doc.TextChunks {
//	    fmt.Printf("page %d: %s\n", doc.TextChunkRefs[i], chunk)
//	}
//
// The pipeline fetches the filing's primary document, splits HTML into
// pages at page-break indicators, flattens each page to plain text with
// tables as pipe-delimited rows, and packs the text into size-bounded
// chunks. Results are cached in the configured store and reloaded on the
// next Build unless a refresh is forced.
package secdoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sloppycoder/sec-doc-tool/tagging"
)

// DefaultContextSize is how many characters of the neighboring chunks
// ChunkWithContext includes on each side.
const DefaultContextSize = 500

// ChunkedDocument is a filing that has been split into text chunks.
// TextChunkRefs maps each chunk back to the HTML page it came from; both
// are empty for plain-text filings, which have no page structure.
type ChunkedDocument struct {
	CIK             string     `json:"cik"`
	AccessionNumber string     `json:"accession_number"`
	DateFiled       string     `json:"date_filed"`
	HTMLPages       []string   `json:"html_pages"`
	TextChunks      []string   `json:"text_chunks"`
	TextChunkRefs   []int      `json:"text_chunk_refs"`
	ChunkTags       []ChunkTag `json:"chunk_tags,omitempty"`
}

// ChunkTag is the label set attached to one chunk. Structural tags that
// consumers branch on are typed flags; everything else the tagging model
// emits lands in Extra keyed by normalized tag name.
type ChunkTag struct {
	Summary  string            `json:"summary,omitempty"`
	IsTable  bool              `json:"is_table,omitempty"`
	IsHeader bool              `json:"is_header,omitempty"`
	IsList   bool              `json:"is_list,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func (t ChunkTag) empty() bool {
	return t.Summary == "" && !t.IsTable && !t.IsHeader && !t.IsList && len(t.Extra) == 0
}

// TagFromResult converts a raw tagging result into a ChunkTag, promoting
// the structural flags and keeping the remaining tags as Extra.
func TagFromResult(r tagging.Result) ChunkTag {
	t := ChunkTag{Summary: r.Summary}
	for k, v := range r.Tags {
		switch k {
		case "is_table", "table":
			t.IsTable = truthy(v)
		case "is_header", "header":
			t.IsHeader = truthy(v)
		case "is_list", "list":
			t.IsList = truthy(v)
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]string)
			}
			t.Extra[k] = v
		}
	}
	return t
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}

func (d *ChunkedDocument) String() string {
	return fmt.Sprintf("ChunkedDocument(%s,%s,%s,chunks=%d)",
		d.CIK, d.AccessionNumber, d.DateFiled, len(d.TextChunks))
}

// ChunkWithContext returns the chunks from startChunk through endChunk
// joined together, with up to contextSize characters of the preceding and
// following chunks attached. Pass startChunk as endChunk for a single
// chunk, and contextSize <= 0 for DefaultContextSize.
func (d *ChunkedDocument) ChunkWithContext(startChunk, endChunk, contextSize int) (string, error) {
	if contextSize <= 0 {
		contextSize = DefaultContextSize
	}
	if startChunk < 0 || startChunk >= len(d.TextChunks) {
		return "", fmt.Errorf("start chunk %d out of range [0,%d)", startChunk, len(d.TextChunks))
	}
	if endChunk < 0 || endChunk >= len(d.TextChunks) {
		return "", fmt.Errorf("end chunk %d out of range [0,%d)", endChunk, len(d.TextChunks))
	}
	if startChunk > endChunk {
		return "", errors.New("start chunk cannot be greater than end chunk")
	}

	main := strings.Join(d.TextChunks[startChunk:endChunk+1], "\n\n")

	var prev, next string
	if startChunk > 0 {
		prev = tail(d.TextChunks[startChunk-1], contextSize)
	}
	if endChunk < len(d.TextChunks)-1 {
		next = head(d.TextChunks[endChunk+1], contextSize)
	}

	return prev + "\n\n" + main + "\n\n" + next, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
