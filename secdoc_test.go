package secdoc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloppycoder/sec-doc-tool/edgar"
	"github.com/sloppycoder/sec-doc-tool/storage"
	"github.com/sloppycoder/sec-doc-tool/tagging"
)

const (
	testCIK       = "1007571"
	testAccession = "0001193125-24-109215"
)

const testIndexHeaders = `<html><body><pre>
&lt;SEC-HEADER&gt;
FILED AS OF DATE:  20240422
&lt;/SEC-HEADER&gt;
&lt;DOCUMENT&gt;
&lt;TYPE&gt;485BPOS
&lt;SEQUENCE&gt;1
&lt;FILENAME&gt;d799089d485bpos.htm
&lt;TEXT&gt;
&lt;/TEXT&gt;
&lt;/DOCUMENT&gt;
</pre></body></html>`

// two pages separated by an hr page break, each with enough text to clear
// the minimum chunk length
const testFilingHTML = `<html><body>
<p>the fund seeks total return through a combination of current income and capital appreciation while keeping expenses low for long term shareholders</p>
<hr style="page-break-after: always">
<p>shares of the fund are offered through intermediaries and directly to institutional investors subject to the minimums described in the prospectus</p>
</body></html>`

func newTestBuilder(t *testing.T, hits *atomic.Int64) (*Builder, storage.Store) {
	t.Helper()

	docPath := "/edgar/data/1007571/000119312524109215"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "-index-headers.html"):
			fmt.Fprint(w, testIndexHeaders)
		case r.URL.Path == docPath+"/d799089d485bpos.htm":
			fmt.Fprint(w, testFilingHTML)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store := storage.NewMemStore()
	builder := NewBuilder(
		WithStore(store),
		WithEdgarClient(edgar.NewClient(
			edgar.WithBaseURL(srv.URL),
			edgar.WithUserAgent("test test@example.com"),
		)),
	)
	return builder, store
}

func TestBuild(t *testing.T) {
	builder, _ := newTestBuilder(t, nil)

	doc, err := builder.Build(context.Background(), testCIK, testAccession)
	require.NoError(t, err)

	assert.Equal(t, testCIK, doc.CIK)
	assert.Equal(t, testAccession, doc.AccessionNumber)
	assert.Equal(t, "2024-04-22", doc.DateFiled)

	require.Len(t, doc.HTMLPages, 2)
	require.Len(t, doc.TextChunks, 2)
	require.Equal(t, []int{0, 1}, doc.TextChunkRefs)

	assert.Contains(t, doc.TextChunks[0], "total return")
	assert.Contains(t, doc.TextChunks[1], "institutional investors")
}

func TestBuild_SecondRunHitsCache(t *testing.T) {
	var hits atomic.Int64
	builder, _ := newTestBuilder(t, &hits)

	ctx := context.Background()
	first, err := builder.Build(ctx, testCIK, testAccession)
	require.NoError(t, err)
	fetched := hits.Load()

	second, err := builder.Build(ctx, testCIK, testAccession)
	require.NoError(t, err)

	assert.Equal(t, first.TextChunks, second.TextChunks)
	assert.Equal(t, fetched, hits.Load(), "second build must not touch the network")
}

func TestBuild_RefreshSkipsCache(t *testing.T) {
	var hits atomic.Int64
	builder, _ := newTestBuilder(t, &hits)
	builder.refresh = true

	ctx := context.Background()
	_, err := builder.Build(ctx, testCIK, testAccession)
	require.NoError(t, err)
	fetched := hits.Load()

	_, err = builder.Build(ctx, testCIK, testAccession)
	require.NoError(t, err)
	assert.Greater(t, hits.Load(), fetched, "refresh must refetch the filing")
}

type fakeTagger struct {
	calls atomic.Int64
}

func (f *fakeTagger) Tag(_ context.Context, text string) (tagging.Result, error) {
	f.calls.Add(1)
	return tagging.Result{
		Summary: "summary of: " + text[:20],
		Tags: map[string]string{
			"is_prospectus": "yes",
			"is_table":      "no",
			"is_list":       "yes",
		},
	}, nil
}

func TestTagChunks(t *testing.T) {
	builder, _ := newTestBuilder(t, nil)

	ctx := context.Background()
	doc, err := builder.Build(ctx, testCIK, testAccession)
	require.NoError(t, err)

	tagger := &fakeTagger{}
	require.NoError(t, builder.TagChunks(ctx, doc, tagger))

	require.Len(t, doc.ChunkTags, len(doc.TextChunks))
	for _, tag := range doc.ChunkTags {
		assert.Equal(t, "yes", tag.Extra["is_prospectus"])
		assert.False(t, tag.IsTable)
		assert.True(t, tag.IsList)
	}

	// tags survive the cache roundtrip
	reloaded, err := builder.Load(testCIK, testAccession)
	require.NoError(t, err)
	assert.Equal(t, doc.ChunkTags, reloaded.ChunkTags)

	// tagging again does not re-tag chunks that already carry tags
	before := tagger.calls.Load()
	require.NoError(t, builder.TagChunks(ctx, reloaded, tagger))
	assert.Equal(t, before, tagger.calls.Load())
}

func TestTagFromResult(t *testing.T) {
	tag := TagFromResult(tagging.Result{
		Summary: "fund overview",
		Tags: map[string]string{
			"is_table":   "Yes",
			"header":     "true",
			"is_list":    "no",
			"fund_names": "Income Builder Fund",
			"is_sai":     "no",
		},
	})

	assert.Equal(t, "fund overview", tag.Summary)
	assert.True(t, tag.IsTable)
	assert.True(t, tag.IsHeader)
	assert.False(t, tag.IsList)
	assert.Equal(t, map[string]string{
		"fund_names": "Income Builder Fund",
		"is_sai":     "no",
	}, tag.Extra)
}

func TestLoad_Missing(t *testing.T) {
	builder := NewBuilder(WithStore(storage.NewMemStore()))

	_, err := builder.Load("1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkWithContext(t *testing.T) {
	doc := &ChunkedDocument{
		TextChunks: []string{
			strings.Repeat("a", 600),
			"middle chunk",
			strings.Repeat("z", 600),
		},
	}

	out, err := doc.ChunkWithContext(1, 1, 0)
	require.NoError(t, err)

	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("a", DefaultContextSize), parts[0])
	assert.Equal(t, "middle chunk", parts[1])
	assert.Equal(t, strings.Repeat("z", DefaultContextSize), parts[2])
}

func TestChunkWithContext_Bounds(t *testing.T) {
	doc := &ChunkedDocument{TextChunks: []string{"only"}}

	out, err := doc.ChunkWithContext(0, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "\n\nonly\n\n", out)

	_, err = doc.ChunkWithContext(-1, 0, 100)
	assert.Error(t, err)
	_, err = doc.ChunkWithContext(0, 5, 100)
	assert.Error(t, err)

	doc2 := &ChunkedDocument{TextChunks: []string{"a", "b"}}
	_, err = doc2.ChunkWithContext(1, 0, 100)
	assert.Error(t, err)
}

func TestChunkWithContext_Range(t *testing.T) {
	doc := &ChunkedDocument{TextChunks: []string{"first", "second", "third", "fourth"}}

	out, err := doc.ChunkWithContext(1, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond\n\nthird\n\nfourth", out)
}
