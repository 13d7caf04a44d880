package extract

import (
	"io"

	"golang.org/x/net/html"
)

// AnchorTargets parses HTML content and returns every anchor element's
// href attribute value in document order. Duplicates are preserved and
// no filtering or URL resolution is applied; callers decide which
// targets qualify for probing.
//
// Design decision: we use golang.org/x/net/html rather than regex
// because it correctly handles the malformed HTML common on the web and
// yields a proper DOM traversal, which guarantees document order.
func AnchorTargets(content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				targets = append(targets, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return targets, nil
}

// getAttr retrieves an attribute value from an HTML node. The second
// return value distinguishes a missing attribute from an empty one.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
