package edgar

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// docRe parses one <DOCUMENT> element of the SGML submission header.
// FILENAME and DESCRIPTION are optional in the wild, but every document
// worth fetching carries a filename.
var docRe = regexp.MustCompile(`(?is)<DOCUMENT>\s*` +
	`<TYPE>(?P<type>.*?)\s*` +
	`<SEQUENCE>(?P<sequence>.*?)\s*` +
	`<FILENAME>(?P<filename>.*?)\s*` +
	`(?:<DESCRIPTION>(?P<description>.*?)\s*)?` +
	`<TEXT>`)

// dateFiledRe matches the "FILED AS OF DATE: 20241017" header line.
var dateFiledRe = regexp.MustCompile(`(?i)FILED AS OF DATE:\s*(\d{8})`)

// parseIndexHeaders extracts the filing date and document manifest from an
// index-headers.html page. The SGML header sits entity-escaped inside the
// page's single <pre> block, so the text content of that block is the raw
// SGML to scan.
func parseIndexHeaders(content []byte) (dateFiled string, docs []Document) {
	root, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return "", nil
	}
	pre := findNode(root, "pre")
	if pre == nil {
		return "", nil
	}
	sgml := nodeText(pre)

	if m := dateFiledRe.FindStringSubmatch(sgml); m != nil {
		d := m[1]
		dateFiled = d[:4] + "-" + d[4:6] + "-" + d[6:]
	}

	for _, m := range docRe.FindAllStringSubmatch(sgml, -1) {
		docs = append(docs, Document{
			Type:        m[docRe.SubexpIndex("type")],
			Sequence:    m[docRe.SubexpIndex("sequence")],
			Filename:    m[docRe.SubexpIndex("filename")],
			Description: m[docRe.SubexpIndex("description")],
		})
	}
	return dateFiled, docs
}

// parseIndexHTML extracts the filing date and document manifest from a
// plain index.html page: the date from the "Filing Date" info header, the
// documents from the tableFile rows (sequence, description, link, type,
// size).
func parseIndexHTML(content []byte) (dateFiled string, docs []Document) {
	root, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return "", nil
	}

	for _, head := range findNodesByClass(root, "div", "infoHead") {
		if strings.TrimSpace(nodeText(head)) != "Filing Date" {
			continue
		}
		for sib := head.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode && sib.Data == "div" && hasClass(sib, "info") {
				dateFiled = strings.TrimSpace(nodeText(sib))
				break
			}
		}
		break
	}

	table := firstNodeByClass(root, "table", "tableFile")
	if table == nil {
		return dateFiled, nil
	}

	rows := findNodes(table, "tr")
	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}
		cols := findNodes(row, "td")
		if len(cols) < 5 {
			continue
		}

		anchor := findNode(cols[2], "a")
		if anchor == nil {
			continue
		}
		docs = append(docs, Document{
			Sequence: strings.TrimSpace(nodeText(cols[0])),
			Filename: strings.TrimSpace(nodeText(anchor)),
			Type:     strings.TrimSpace(nodeText(cols[3])),
		})
	}
	return dateFiled, docs
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findNodes(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findNodesByClass(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	for _, node := range findNodes(n, tag) {
		if hasClass(node, class) {
			out = append(out, node)
		}
	}
	return out
}

func firstNodeByClass(n *html.Node, tag, class string) *html.Node {
	if nodes := findNodesByClass(n, tag, class); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
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
