package nlp

import "testing"

func TestNewSegmenter(t *testing.T) {
	seg, err := NewSegmenter()
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}

	sents, err := seg.Segment("The fund charges a fee. The fee is $100 per year. Returns vary.")
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(sents) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", len(sents), sents)
	}
	if sents[0] != "The fund charges a fee." {
		t.Errorf("first sentence = %q", sents[0])
	}
}

func TestSegment_Deterministic(t *testing.T) {
	seg, err := NewSegmenter()
	if err != nil {
		t.Fatal(err)
	}
	text := "Performance is judged over one year. Fees apply. See the prospectus."

	first, _ := seg.Segment(text)
	second, _ := seg.Segment(text)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic sentence count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sentence %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestDefault_ReturnsSameHandle(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Default()
	if a != b {
		t.Error("Default should return the process-wide handle")
	}
}

func TestLazy(t *testing.T) {
	l := NewLazy()
	sents, err := l.Segment("One sentence. Another one.")
	if err != nil {
		t.Fatalf("lazy Segment: %v", err)
	}
	if len(sents) != 2 {
		t.Errorf("expected 2 sentences, got %d: %q", len(sents), sents)
	}
}
