// Package htmltext converts filing HTML into plain text for chunking.
//
// The conversion favors the downstream chunker over visual fidelity: block
// elements become paragraphs, tables become pipe-delimited rows ("A | B",
// with a trailing pipe for single-cell rows), link targets and images are
// dropped, and emphasis is ignored. Lines are never wrapped.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	aroundNLRe   = regexp.MustCompile(`[ \t]+\n|\n[ \t]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	wsCollapseRe = regexp.MustCompile(`\s+`)
)

// FromHTML extracts the visible text of an HTML document or fragment.
// Elements styled display:none are removed first so hidden boilerplate
// never reaches the chunker. The function is total: unparsable input
// yields an empty string rather than an error.
func FromHTML(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	pruneHidden(doc)

	var sb strings.Builder
	writeNode(&sb, doc)

	text := sb.String()
	text = aroundNLRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// blockTags separate their content into paragraphs.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"blockquote": true, "pre": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipTags contribute no visible text.
var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "title": true,
	"img": true, "noscript": true,
}

func writeNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// HTML source whitespace is not significant; collapse it but
		// keep a single space so words do not fuse across tags.
		sb.WriteString(wsCollapseRe.ReplaceAllString(n.Data, " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		switch n.Data {
		case "br":
			sb.WriteString("\n")
			return
		case "table":
			writeTable(sb, n)
			return
		case "li":
			sb.WriteString("\n")
			writeChildren(sb, n)
			return
		}
		if blockTags[n.Data] {
			sb.WriteString("\n\n")
			writeChildren(sb, n)
			sb.WriteString("\n\n")
			return
		}
	}
	writeChildren(sb, n)
}

func writeChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(sb, c)
	}
}

// writeTable renders each table row as pipe-delimited cells. A row with a
// single cell keeps a trailing pipe so it is still recognizable as a
// table row downstream.
func writeTable(sb *strings.Builder, table *html.Node) {
	sb.WriteString("\n\n")
	for _, row := range tableRows(table) {
		cells := rowCells(row)
		if len(cells) == 0 {
			continue
		}
		line := strings.Join(cells, " | ")
		if len(cells) == 1 {
			line += " |"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// tableRows collects the <tr> elements of a table without descending into
// nested tables; nested table content is flattened into its enclosing
// cell's text instead.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				rows = append(rows, c)
			case "table":
				// nested table, handled as cell text
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func rowCells(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(wsCollapseRe.ReplaceAllString(nodeText(c), " ")))
		}
	}
	// drop trailing empty padding cells common in generated filings
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// pruneHidden removes comments and elements hidden by inline style.
func pruneHidden(doc *html.Node) {
	var hidden []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			hidden = append(hidden, n)
			return
		}
		if n.Type == html.ElementNode {
			style := strings.ReplaceAll(strings.ToLower(attrValue(n, "style")), " ", "")
			if strings.Contains(style, "display:none") {
				hidden = append(hidden, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, n := range hidden {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
