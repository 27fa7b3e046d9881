package pagesplit

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// cleanFragment re-parses a page fragment so each page is well formed on
// its own. Three tiers: parse as a body fragment; on failure wrap in a
// synthetic <div> and retry; as a last resort keep the raw string verbatim
// rather than dropping content. The boolean reports whether the fragment
// carries any text content worth keeping.
func cleanFragment(fragment string) (string, bool) {
	if nodes, err := parseBodyFragment(fragment); err == nil {
		if !anyText(nodes) {
			return "", false
		}
		return renderNodes(nodes), true
	}

	if nodes, err := parseBodyFragment("<div>" + fragment + "</div>"); err == nil {
		if !anyText(nodes) {
			return "", false
		}
		return renderNodes(nodes), true
	}

	return fragment, strings.TrimSpace(fragment) != ""
}

func parseBodyFragment(fragment string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	return html.ParseFragment(strings.NewReader(fragment), ctx)
}

func anyText(nodes []*html.Node) bool {
	for _, n := range nodes {
		if strings.TrimSpace(textContent(n)) != "" {
			return true
		}
	}
	return false
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func renderNodes(nodes []*html.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(renderNode(n))
	}
	return sb.String()
}

// renderChildren serializes the children of n without n's own tags, so
// page fragments are not each wrapped in an extra <body>.
func renderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(renderNode(c))
	}
	return sb.String()
}
