package pagesplit

import (
	"strings"

	"golang.org/x/net/html"
)

// Indicator rule names, used for selector statistics.
const (
	ruleHR            = "hr"
	ruleBreakStyle    = "page-break-style"
	ruleBorderWrapper = "border-top-wrapper"
)

// detectPageBreaks walks the tree and returns every element that looks like
// a page-break indicator. The rules are evaluated independently and their
// results unioned; an element matching more than one rule is reported once.
func detectPageBreaks(doc *html.Node) []*html.Node {
	var (
		found []*html.Node
		seen  = map[*html.Node]bool{}
	)
	add := func(rule string, nodes []*html.Node) {
		fresh := 0
		for _, n := range nodes {
			if !seen[n] {
				seen[n] = true
				found = append(found, n)
				fresh++
			}
		}
		recordSelector(rule, fresh)
	}

	add(ruleHR, collect(doc, isHR))
	add(ruleBreakStyle, collect(doc, hasPageBreakStyle))
	add(ruleBorderWrapper, collect(doc, isBorderTopWrapper))

	return found
}

func isHR(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "hr"
}

// hasPageBreakStyle matches inline styles carrying a page-break-before,
// page-break-after or break-before:page directive. Spacing around the
// colon varies between generators, so the style is compared with all
// spaces removed.
func hasPageBreakStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	style := strings.ToLower(attrValue(n, "style"))
	if style == "" {
		return false
	}
	if strings.Contains(style, "page-break-before") || strings.Contains(style, "page-break-after") {
		return true
	}
	compact := strings.ReplaceAll(style, " ", "")
	return strings.Contains(compact, "break-before:page")
}

// isBorderTopWrapper matches the visual-separator idiom common in generated
// filings:
//
//	<div style="margin-left: auto; margin-right: auto; width: 100%">
//	    <div style="border-top: Black 2px solid; font-size: 1pt">&nbsp;</div>
//	</div>
//
// The wrapper div is the indicator. n here is the wrapper: a div whose
// style declares full width and whose only element child carries a
// border-top declaration.
func isBorderTopWrapper(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	if !strings.Contains(compactStyle(n), "width:100%") {
		return false
	}

	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if only != nil {
			return false
		}
		only = c
	}
	return only != nil &&
		only.Type == html.ElementNode &&
		only.Data == "div" &&
		strings.Contains(compactStyle(only), "border-top")
}

func compactStyle(n *html.Node) string {
	return strings.ReplaceAll(strings.ToLower(attrValue(n, "style")), " ", "")
}

// collect returns all nodes under root matching pred, in document order.
func collect(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// removeInvisible deletes elements whose inline style hides them from
// rendering. Done before indicator detection so hidden boilerplate never
// generates pages.
func removeInvisible(doc *html.Node) {
	hidden := collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode &&
			strings.Contains(compactStyle(n), "display:none")
	})
	for _, n := range hidden {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// removeComments strips all HTML comments from the tree.
func removeComments(doc *html.Node) {
	comments := collect(doc, func(n *html.Node) bool {
		return n.Type == html.CommentNode
	})
	for _, n := range comments {
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

// findElement returns the first element named tag under n, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
