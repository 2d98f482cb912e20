package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parse parses an HTML document into a node tree.
//
// Design decision: We use golang.org/x/net/html rather than regex or a
// strict XML parser because:
//  1. It correctly handles malformed HTML (unclosed tags, stray characters)
//  2. Provides a proper DOM-like structure for path queries
//  3. Standard library extension, well-maintained
//
// Input bytes are routed through charset detection so documents in legacy
// encodings are transcoded to UTF-8 instead of producing garbage text.
// Parsing is best-effort: residual irregularities after the server's own
// markup repair never abort the parse.
func Parse(r io.Reader) (*html.Node, error) {
	cr, err := charset.NewReader(r, "text/html")
	if err != nil {
		// Only fails when the underlying reader fails; markup problems
		// never surface here.
		return nil, err
	}
	return html.Parse(cr)
}

// Query evaluates a path selector against a node tree and returns every
// matching element in document order. It returns an empty slice, never an
// error, when nothing matches.
//
// A path is a sequence of steps separated by "/". The first step matches
// any descendant of the root; each subsequent step matches direct children
// of the previous step's matches. A step is an element name optionally
// qualified by "#id", ".class", or "[attr=value]":
//
//	form#page__revisions/div/ul/li/div
//	span.sum
//	input[name=rev2[]]
func Query(root *html.Node, path string) []*html.Node {
	if root == nil {
		return nil
	}

	steps := parsePath(path)
	if len(steps) == 0 {
		return nil
	}

	// First step searches the whole subtree.
	current := make([]*html.Node, 0)
	walkDescendants(root, func(n *html.Node) {
		if steps[0].matches(n) {
			current = append(current, n)
		}
	})

	// Remaining steps narrow to matching children.
	for _, s := range steps[1:] {
		next := make([]*html.Node, 0)
		for _, n := range current {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if s.matches(c) {
					next = append(next, c)
				}
			}
		}
		current = next
	}

	return current
}

// Attr returns the value of the named attribute on an element node.
// The second return value reports whether the attribute is present.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of a node's subtree.
// A nil node yields an empty string.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// step is one component of a path selector.
type step struct {
	tag       string
	id        string
	class     string
	attrKey   string
	attrValue string
}

// parsePath splits a selector path into steps.
// Malformed steps degrade to match-nothing rather than erroring, in keeping
// with the package's swallow-and-continue contract.
func parsePath(path string) []step {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	steps := make([]step, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		steps = append(steps, parseStep(seg))
	}
	return steps
}

// parseStep parses a single step like "input[name=rev2[]]", "span.sum",
// or "form#page__revisions".
func parseStep(seg string) step {
	var s step

	// Attribute qualifier first: the value may contain any character
	// except the closing bracket at the end of the step.
	if open := strings.IndexByte(seg, '['); open >= 0 {
		if close := strings.LastIndexByte(seg, ']'); close > open {
			cond := seg[open+1 : close]
			if eq := strings.IndexByte(cond, '='); eq >= 0 {
				s.attrKey = cond[:eq]
				s.attrValue = cond[eq+1:]
			} else {
				s.attrKey = cond
			}
		}
		seg = seg[:open]
	}

	if hash := strings.IndexByte(seg, '#'); hash >= 0 {
		s.id = seg[hash+1:]
		seg = seg[:hash]
	}

	if dot := strings.IndexByte(seg, '.'); dot >= 0 {
		s.class = seg[dot+1:]
		seg = seg[:dot]
	}

	s.tag = seg
	return s
}

// matches reports whether an element node satisfies the step.
func (s step) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" {
		if id, ok := Attr(n, "id"); !ok || id != s.id {
			return false
		}
	}
	if s.class != "" && !hasClass(n, s.class) {
		return false
	}
	if s.attrKey != "" {
		val, ok := Attr(n, s.attrKey)
		if !ok {
			return false
		}
		if s.attrValue != "" && val != s.attrValue {
			return false
		}
	}
	return true
}

// hasClass reports whether the node's class attribute contains the class.
func hasClass(n *html.Node, class string) bool {
	val, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(val) {
		if c == class {
			return true
		}
	}
	return false
}

// walkDescendants visits every node below root in document order.
func walkDescendants(root *html.Node, fn func(*html.Node)) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
		walkDescendants(c, fn)
	}
}
