package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

// stubSegmenter splits on sentence-terminal punctuation, deterministically
// and without loading any model.
type stubSegmenter struct {
	calls int
}

var stubSentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

func (s *stubSegmenter) Segment(text string) ([]string, error) {
	s.calls++
	matches := stubSentenceRe.FindAllString(text, -1)
	sents := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := strings.TrimSpace(m); t != "" {
			sents = append(sents, t)
		}
	}
	if len(sents) == 0 && strings.TrimSpace(text) != "" {
		sents = append(sents, strings.TrimSpace(text))
	}
	return sents, nil
}

type failingSegmenter struct{ err error }

func (f *failingSegmenter) Segment(string) ([]string, error) { return nil, f.err }

func newTestChunker(opts ...Option) (*Chunker, *stubSegmenter) {
	stub := &stubSegmenter{}
	return New(append([]Option{WithSegmenter(stub)}, opts...)...), stub
}

func TestChunk_Empty(t *testing.T) {
	c, _ := newTestChunker()
	chunks, err := c.Chunk("   \n\n  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunk_TableWithProseFitsOneChunk(t *testing.T) {
	// Scenario: a 6-row table and three short prose paragraphs, all well
	// under the chunk size, must come back as a single chunk with the
	// table rows contiguous.
	table := strings.Join([]string{
		"Name of Portfolio Manager | Dollar Range",
		"---|---",
		"Income Builder Fund |",
		"Ron Arons | $100,001-$500,000",
		"Kevin Martens | $100,001-$500,000",
		"Neill Nuttall | $500,001-$1,000,000",
		"Ashish Shah | Over $1,000,000",
	}, "\n")
	prose := "The compensation described above applies to all portfolio managers of the adviser without exception."

	input := table + "\n\n" + prose + "\n\n" + prose + "\n\n" + prose

	c, _ := newTestChunker()
	chunks, err := c.Chunk(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	// separator row dropped, data rows contiguous
	wantBlock := strings.Join([]string{
		"Name of Portfolio Manager | Dollar Range",
		"Income Builder Fund |",
		"Ron Arons | $100,001-$500,000",
		"Kevin Martens | $100,001-$500,000",
		"Neill Nuttall | $500,001-$1,000,000",
		"Ashish Shah | Over $1,000,000",
	}, "\n")
	if !strings.Contains(chunks[0], wantBlock) {
		t.Errorf("table rows not contiguous in chunk:\n%s", chunks[0])
	}
}

func TestChunk_LongProseSplitsAtSentences(t *testing.T) {
	sentence := "This fund invests primarily in equity securities of large capitalization companies today."
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString(sentence)
		sb.WriteString(" ")
	}

	c, _ := newTestChunker(WithChunkSize(2000))
	chunks, err := c.Chunk(sb.String())
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 5400 chars of prose, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 2000 {
			t.Errorf("chunk %d exceeds size limit: %d", i, len(chunk))
		}
		// no chunk ends mid-sentence
		if !strings.HasSuffix(strings.TrimSpace(chunk), ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, chunk[len(chunk)-40:])
		}
	}

	// no sentence lost or duplicated
	total := strings.Count(strings.Join(chunks, "\n\n"), sentence)
	if total != 60 {
		t.Errorf("expected 60 sentences across chunks, found %d", total)
	}
}

func TestChunk_OneBatchedOracleCallPerBatch(t *testing.T) {
	long := "The adviser conducts periodic reviews of trades for consistency with stated policies."
	input := long + "\n" + long + "\n" + long

	c, stub := newTestChunker()
	if _, err := c.Chunk(input); err != nil {
		t.Fatal(err)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 combined oracle call for the batch, got %d", stub.calls)
	}
}

func TestChunk_OracleFailureSurfaces(t *testing.T) {
	sentinel := errors.New("model load failed")
	c := New(WithSegmenter(&failingSegmenter{err: sentinel}))

	long := "The adviser conducts periodic reviews of trades for consistency with stated policies."
	_, err := c.Chunk(long)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected oracle error to surface, got %v", err)
	}
}

func TestChunk_TableBlockNeverStraddlesChunks(t *testing.T) {
	// Enough prose to nearly fill the first chunk, then a table that
	// cannot fit: every table row must land in the second chunk.
	sentence := "Portfolio managers are rewarded in part for delivery of investment performance over several horizons."
	var prose strings.Builder
	for i := 0; i < 20; i++ {
		prose.WriteString(sentence)
		prose.WriteString(" ")
	}

	rows := []string{
		"Income Builder Fund |",
		"Ron Arons | $100,001-$500,000",
		"Kevin Martens | $100,001-$500,000",
		"Charles Dane | Over $1,000,000",
		"Neill Nuttall | $500,001-$1,000,000",
		"Ashish Shah | Over $1,000,000",
	}
	input := prose.String() + "\n\n" + strings.Join(rows, "\n")

	c, _ := newTestChunker(WithChunkSize(2000))
	chunks, err := c.Chunk(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	for _, row := range rows {
		hits := 0
		idx := -1
		for i, chunk := range chunks {
			if strings.Contains(chunk, row) {
				hits++
				idx = i
			}
		}
		if hits != 1 {
			t.Fatalf("row %q found in %d chunks", row, hits)
		}
		if strings.Contains(chunks[0], row) {
			t.Errorf("row %q leaked into the first chunk (chunk %d)", row, idx)
		}
	}
}

func TestChunk_OversizedAtomicPiece(t *testing.T) {
	// one unsplittable line longer than the chunk size becomes its own
	// oversized chunk, never truncated
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sb, "FUND%03d ", i)
	}
	line := strings.TrimSpace(sb.String()) // uppercase, no terminal punctuation

	c, stub := newTestChunker(WithChunkSize(2000))
	chunks, err := c.Chunk(line)
	if err != nil {
		t.Fatal(err)
	}
	if stub.calls != 0 {
		t.Errorf("line without sentence punctuation should not reach the oracle, got %d calls", stub.calls)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 oversized chunk, got %d", len(chunks))
	}
	if len(chunks[0]) != len(line) {
		t.Errorf("oversized piece was altered: %d vs %d chars", len(chunks[0]), len(line))
	}
}

func TestChunk_ShortResultDropped(t *testing.T) {
	c, _ := newTestChunker()
	chunks, err := c.Chunk("A short line about fees.")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected sub-minimum chunk to be dropped, got %q", chunks)
	}
}

func TestChunk_MinLengthConfigurable(t *testing.T) {
	c, _ := newTestChunker(WithMinChunkLength(5))
	chunks, err := c.Chunk("A short line about fees.")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk with lowered floor, got %d", len(chunks))
	}
}

func TestIsNoiseLine(t *testing.T) {
	tests := []struct {
		line  string
		noise bool
	}{
		{"", true},
		{"   ", true},
		{" -83-", true},
		{"*", true},
		{" wo- wb- xp", true},
		{" word ", false},
		{"Ron Arons | $100,001-$500,000", false},
		{"12", true},
		{"page 12 of 48", false},
	}
	for _, tt := range tests {
		if got := isNoiseLine(tt.line); got != tt.noise {
			t.Errorf("isNoiseLine(%q) = %v, want %v", tt.line, got, tt.noise)
		}
	}
}

func TestCheckTableRow(t *testing.T) {
	tests := []struct {
		line        string
		isRow       bool
		isSeparator bool
	}{
		{"a | b | c", true, false},
		{"Income Builder Fund |", true, false},
		{"Ron Arons | $100,001-$500,000", true, false},
		{"---|---", true, true},
		{"--- | --- | ---", true, true},
		{"plain prose sentence", false, false},
		{"|", false, false},
		{" | ", false, false},
	}
	for _, tt := range tests {
		isRow, isSep := checkTableRow(tt.line)
		if isRow != tt.isRow || isSep != tt.isSeparator {
			t.Errorf("checkTableRow(%q) = (%v, %v), want (%v, %v)",
				tt.line, isRow, isSep, tt.isRow, tt.isSeparator)
		}
	}
}

func TestNeedsSentenceSplitting(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"short line", "Total annual fund operating expenses.", false},
		{"prose", "The fund seeks total return through a combination of current income and capital appreciation over time.", true},
		{"pipes", "The fund seeks | total return through | a combination of current income and capital appreciation.", false},
		{"upper header", "STATEMENT OF ADDITIONAL INFORMATION FOR THE INCOME BUILDER FUND AND RELATED SERIES.", false},
		{"numeric soup", "$ 1,234.56 -- $ 7,890.12 -- $ 3,456.78 -- $ 9,012.34", false},
		{"no terminal punctuation", "the fund seeks total return through a combination of current income and capital appreciation", false},
	}
	for _, tt := range tests {
		if got := needsSentenceSplitting(tt.line); got != tt.want {
			t.Errorf("%s: needsSentenceSplitting(%q) = %v, want %v", tt.name, tt.line, got, tt.want)
		}
	}
}

func TestCompressTableGaps(t *testing.T) {
	c, _ := newTestChunker()

	t.Run("noisy gap reduced to one blank", func(t *testing.T) {
		chunk := strings.Join([]string{
			"Fund A | $1",
			"",
			"Capital",
			"",
			"xyz",
			"",
			"Fund B | $2",
		}, "\n")
		want := "Fund A | $1\n\nFund B | $2"
		if got := c.compressTableGaps(chunk); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("substantial gap content survives", func(t *testing.T) {
		chunk := strings.Join([]string{
			"Fund A | $1",
			"",
			"Capital",
			"",
			"continued from the previous page",
			"",
			"Fund B | $2",
		}, "\n")
		want := strings.Join([]string{
			"Fund A | $1",
			"",
			"continued from the previous page",
			"",
			"Fund B | $2",
		}, "\n")
		if got := c.compressTableGaps(chunk); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("small gap untouched", func(t *testing.T) {
		chunk := "Fund A | $1\n\nFund B | $2"
		if got := c.compressTableGaps(chunk); got != chunk {
			t.Errorf("got %q, want unchanged", got)
		}
	})

	t.Run("no rows untouched", func(t *testing.T) {
		chunk := "just prose\n\n\nwith blank lines"
		if got := c.compressTableGaps(chunk); got != chunk {
			t.Errorf("got %q, want unchanged", got)
		}
	})
}
