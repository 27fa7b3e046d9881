package pagesplit

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMarkerToken is the text content of the synthetic marker element
// inserted before every detected page-break indicator.
const DefaultMarkerToken = "-PAGE-BREAK-"

// markerClass identifies synthetic marker elements in the rewritten tree.
const markerClass = "page-break-marker"

// Splitter splits filing HTML into page fragments.
type Splitter struct {
	markerToken string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMarkerToken overrides the marker token inserted at page breaks.
func WithMarkerToken(token string) Option {
	return func(s *Splitter) {
		if token != "" {
			s.markerToken = token
		}
	}
}

// New returns a Splitter with the given options applied.
func New(opts ...Option) *Splitter {
	s := &Splitter{markerToken: DefaultMarkerToken}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split splits htmlContent into page fragments using the default marker
// token.
func Split(htmlContent string) []string {
	return New().Split(htmlContent)
}

// Split splits htmlContent into an ordered list of HTML page fragments.
//
// Invisible elements and comments are removed before indicator detection so
// hidden content never produces spurious pages. When no page-break
// indicator is found the entire document is returned as a single page.
// Fragments that have no text content after cleaning are dropped.
func (s *Splitter) Split(htmlContent string) []string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// x/net/html recovers from almost anything; if it truly cannot
		// parse, the whole document is one page.
		return []string{htmlContent}
	}

	removeInvisible(doc)
	removeComments(doc)

	indicators := detectPageBreaks(doc)
	if len(indicators) == 0 {
		return []string{htmlContent}
	}

	markerCount := s.insertMarkers(doc, indicators)
	if markerCount == 0 {
		return []string{htmlContent}
	}

	container := findElement(doc, "body")
	if container == nil {
		container = doc
	}
	serialized := renderChildren(container)

	markerHTML := renderNode(s.newMarkerNode())
	spans := locateMarkerSpans(serialized, markerHTML, markerCount)

	var pages []string
	for _, fragment := range splitAtSpans(serialized, spans) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		if cleaned, ok := cleanFragment(fragment); ok {
			pages = append(pages, cleaned)
		}
	}
	return pages
}

// span is a marker occurrence located in the serialized document,
// [Start, End) in byte offsets.
type span struct {
	Start int
	End   int
}

// locateMarkerSpans finds the serialized position of each marker. All
// markers serialize identically, so a moving search cursor is required to
// match each occurrence to a distinct position. Spans are sorted by string
// offset afterwards: tree-serialization quirks with nested markers can in
// principle emit them out of insertion order.
func locateMarkerSpans(serialized, markerHTML string, count int) []span {
	spans := make([]span, 0, count)
	cursor := 0
	for i := 0; i < count; i++ {
		rel := strings.Index(serialized[cursor:], markerHTML)
		if rel < 0 {
			break
		}
		start := cursor + rel
		spans = append(spans, span{Start: start, End: start + len(markerHTML)})
		cursor = start + len(markerHTML)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// splitAtSpans cuts serialized into the content before the first span,
// between consecutive spans, and after the last span.
func splitAtSpans(serialized string, spans []span) []string {
	if len(spans) == 0 {
		return []string{serialized}
	}

	fragments := make([]string, 0, len(spans)+1)
	lastEnd := 0
	for _, sp := range spans {
		fragments = append(fragments, serialized[lastEnd:sp.Start])
		lastEnd = sp.End
	}
	if lastEnd < len(serialized) {
		fragments = append(fragments, serialized[lastEnd:])
	}
	return fragments
}

// insertMarkers inserts a marker element immediately before each indicator
// and removes <hr> indicators, which are purely visual. Returns the number
// of markers actually inserted.
func (s *Splitter) insertMarkers(doc *html.Node, indicators []*html.Node) int {
	inserted := 0
	for _, el := range indicators {
		if el.Parent == nil {
			continue
		}
		el.Parent.InsertBefore(s.newMarkerNode(), el)
		inserted++

		if el.DataAtom == atom.Hr || el.Data == "hr" {
			el.Parent.RemoveChild(el)
		}
	}
	return inserted
}

func (s *Splitter) newMarkerNode() *html.Node {
	marker := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "class", Val: markerClass}},
	}
	marker.AppendChild(&html.Node{Type: html.TextNode, Data: s.markerToken})
	return marker
}
