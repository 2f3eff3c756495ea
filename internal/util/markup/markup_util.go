package markup

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var (
	tagPattern   = regexp.MustCompile(`</?[^>]+(>|$)`)
	breakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// InnerText extracts all visible text content inside a node.
// Script and style subtrees are skipped, and so is any element for which skip returns true.
func InnerText(node *xhtml.Node, skip func(*xhtml.Node) bool) string {
	var sb strings.Builder
	var traverse func(*xhtml.Node)
	traverse = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if skip != nil && skip(n) {
				return
			}
		}
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return CollapseSpace(sb.String())
}

// IsElement checks whether the node is an element with the given tag.
func IsElement(node *xhtml.Node, tag string) bool {
	return node.Type == xhtml.ElementNode && node.Data == tag
}

// AttrValue finds and returns the named attribute of an element.
// If there's no such attribute, it returns an empty string.
func AttrValue(node *xhtml.Node, key string) string {
	v, _ := LookupAttr(node, key)
	return v
}

// LookupAttr is AttrValue that also reports presence.
func LookupAttr(node *xhtml.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// HasClass checks the class attribute for a whole-word match.
func HasClass(node *xhtml.Node, class string) bool {
	if node.Type != xhtml.ElementNode {
		return false
	}
	for _, c := range strings.Fields(AttrValue(node, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Elements returns the element nodes under root in document order.
func Elements(root *xhtml.Node) []*xhtml.Node {
	var out []*xhtml.Node
	var visit func(*xhtml.Node)
	visit = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return out
}

// StripTags removes html markings from a string and unescapes entities.
func StripTags(s string) string {
	s = breakPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "</p>", " ")
	s = tagPattern.ReplaceAllString(s, "")
	return CollapseSpace(html.UnescapeString(s))
}

// CollapseSpace trims s and folds internal whitespace runs (nbsp included) into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
