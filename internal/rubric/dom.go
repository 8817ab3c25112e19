package rubric

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"sitegauge/internal/site"
)

// pageDOM is one rendered page parsed into a DOM tree.
type pageDOM struct {
	Path  string
	Title string
	Root  *html.Node
}

// parseSnapshot parses every rendered page. Any unparsable page fails the
// whole parse; callers turn that into an abstaining evaluation.
func parseSnapshot(snap *site.Snapshot) ([]pageDOM, error) {
	if snap == nil || len(snap.Pages) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	pages := make([]pageDOM, 0, len(snap.Pages))
	for _, p := range snap.Pages {
		root, err := html.Parse(strings.NewReader(p.HTML))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", p.Path, err)
		}
		pages = append(pages, pageDOM{Path: p.Path, Title: p.Title, Root: root})
	}
	return pages, nil
}

// findAll returns all element nodes with the given tag, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// attr returns the value of an attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text under a node, whitespace-normalized.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// heading is one h1-h6 element in document order.
type heading struct {
	Level int
	Text  string
}

// headings returns all h1-h6 elements in document order.
func headings(n *html.Node) []heading {
	var out []heading
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && len(node.Data) == 2 && node.Data[0] == 'h' &&
			node.Data[1] >= '1' && node.Data[1] <= '6' {
			out = append(out, heading{Level: int(node.Data[1] - '0'), Text: textContent(node)})
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// metaDescription returns the content of <meta name="description">, or "".
func metaDescription(root *html.Node) string {
	for _, m := range findAll(root, "meta") {
		if attr(m, "name") == "description" {
			return attr(m, "content")
		}
	}
	return ""
}

// hasClass reports whether a node carries the given CSS class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func issueID(evaluatorID, kind string, seq int) string {
	return fmt.Sprintf("%s/%s/%d", evaluatorID, kind, seq)
}
