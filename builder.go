package secdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sloppycoder/sec-doc-tool/chunker"
	"github.com/sloppycoder/sec-doc-tool/edgar"
	"github.com/sloppycoder/sec-doc-tool/format"
	"github.com/sloppycoder/sec-doc-tool/htmltext"
	"github.com/sloppycoder/sec-doc-tool/pagesplit"
	"github.com/sloppycoder/sec-doc-tool/storage"
	"github.com/sloppycoder/sec-doc-tool/tagging"
)

// ErrUnsupportedDocType indicates the filing's primary document is neither
// HTML nor plain text.
var ErrUnsupportedDocType = errors.New("unsupported document type")

// ErrNoDocument indicates the filing has no primary document in a
// chunkable format.
var ErrNoDocument = errors.New("filing has no chunkable document")

// defaultDocType is the form type whose primary document gets chunked.
const defaultDocType = "485BPOS"

var defaultFileTypes = []string{"htm", "txt"}

// ChunkTagger labels one chunk of text. *tagging.Tagger satisfies it.
type ChunkTagger interface {
	Tag(ctx context.Context, text string) (tagging.Result, error)
}

// Builder assembles ChunkedDocuments from EDGAR filings, caching results
// in its store.
type Builder struct {
	client    *edgar.Client
	store     storage.Store
	splitter  *pagesplit.Splitter
	chunker   *chunker.Chunker
	docType   string
	fileTypes []string
	refresh   bool
}

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithEdgarClient sets the client used to fetch filings.
func WithEdgarClient(c *edgar.Client) BuildOption {
	return func(b *Builder) {
		if c != nil {
			b.client = c
		}
	}
}

// WithStore sets the cache for built documents.
func WithStore(s storage.Store) BuildOption {
	return func(b *Builder) {
		if s != nil {
			b.store = s
		}
	}
}

// WithChunker overrides the text chunker.
func WithChunker(c *chunker.Chunker) BuildOption {
	return func(b *Builder) {
		if c != nil {
			b.chunker = c
		}
	}
}

// WithSplitter overrides the HTML page splitter.
func WithSplitter(s *pagesplit.Splitter) BuildOption {
	return func(b *Builder) {
		if s != nil {
			b.splitter = s
		}
	}
}

// WithDocType selects which form type to chunk. The default is 485BPOS.
func WithDocType(docType string) BuildOption {
	return func(b *Builder) {
		if docType != "" {
			b.docType = docType
		}
	}
}

// WithRefresh forces a rebuild even when a cached document exists.
func WithRefresh(refresh bool) BuildOption {
	return func(b *Builder) { b.refresh = refresh }
}

// NewBuilder returns a Builder with default collaborators: an uncached
// EDGAR client, a disabled store, and default splitter and chunker.
func NewBuilder(opts ...BuildOption) *Builder {
	b := &Builder{
		client:    edgar.NewClient(),
		store:     storage.NopStore{},
		splitter:  pagesplit.New(),
		chunker:   chunker.New(),
		docType:   defaultDocType,
		fileTypes: defaultFileTypes,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func cachePath(cik, accessionNumber string) string {
	return fmt.Sprintf("chunked_filing/%s/%s.json", cik, accessionNumber)
}

// Load returns the cached ChunkedDocument for a filing, or
// storage.ErrNotFound.
func (b *Builder) Load(cik, accessionNumber string) (*ChunkedDocument, error) {
	data, err := b.store.Load(cachePath(cik, accessionNumber))
	if err != nil {
		return nil, err
	}
	var doc ChunkedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding cached document %s/%s: %w", cik, accessionNumber, err)
	}
	return &doc, nil
}

// Build returns the ChunkedDocument for a filing, from cache when present
// and otherwise by fetching, splitting and chunking its primary document.
func (b *Builder) Build(ctx context.Context, cik, accessionNumber string) (*ChunkedDocument, error) {
	if !b.refresh {
		if doc, err := b.Load(cik, accessionNumber); err == nil {
			log.Debug("loaded chunked document from cache",
				"cik", cik, "accession", accessionNumber, "chunks", len(doc.TextChunks))
			return doc, nil
		} else if !errors.Is(err, storage.ErrNotFound) {
			log.Info("ignoring unreadable cached document",
				"cik", cik, "accession", accessionNumber, "err", err)
		}
	}

	filing, err := b.client.Filing(ctx, cik, accessionNumber)
	if err != nil {
		return nil, err
	}

	contents, err := b.client.DocContent(ctx, filing, b.docType, b.fileTypes)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoDocument, cik, accessionNumber)
	}

	primary := contents[0]
	doc := &ChunkedDocument{
		CIK:             cik,
		AccessionNumber: accessionNumber,
		DateFiled:       filing.DateFiled,
	}

	switch format.DetectNamed(primary.Path, []byte(primary.Content)) {
	case format.HTML:
		doc.HTMLPages = b.splitter.Split(primary.Content)
		for i, page := range doc.HTMLPages {
			chunks, err := b.chunker.Chunk(htmltext.FromHTML(page))
			if err != nil {
				return nil, fmt.Errorf("chunking page %d of %s: %w", i, primary.Path, err)
			}
			doc.TextChunks = append(doc.TextChunks, chunks...)
			for range chunks {
				doc.TextChunkRefs = append(doc.TextChunkRefs, i)
			}
		}
	case format.Text:
		doc.TextChunks, err = b.chunker.Chunk(primary.Content)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", primary.Path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocType, primary.Path)
	}

	if err := b.save(doc); err != nil {
		log.Warn("unable to cache chunked document",
			"cik", cik, "accession", accessionNumber, "err", err)
	} else {
		log.Debug("created chunked document",
			"cik", cik, "accession", accessionNumber, "chunks", len(doc.TextChunks))
	}
	return doc, nil
}

// TagChunks labels every chunk of a document and persists the result.
// Chunks already tagged keep their tags; a fresh document gets a tag slot
// per chunk first.
func (b *Builder) TagChunks(ctx context.Context, doc *ChunkedDocument, tagger ChunkTagger) error {
	if len(doc.ChunkTags) != len(doc.TextChunks) {
		doc.ChunkTags = make([]ChunkTag, len(doc.TextChunks))
	}

	for i, chunk := range doc.TextChunks {
		if !doc.ChunkTags[i].empty() {
			continue
		}
		result, err := tagger.Tag(ctx, chunk)
		if err != nil {
			return fmt.Errorf("tagging chunk %d: %w", i, err)
		}
		doc.ChunkTags[i] = TagFromResult(result)
	}

	return b.save(doc)
}

func (b *Builder) save(doc *ChunkedDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s/%s: %w", doc.CIK, doc.AccessionNumber, err)
	}
	return b.store.Write(cachePath(doc.CIK, doc.AccessionNumber), data)
}
