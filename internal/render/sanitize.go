package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[string]bool{
	"div": true, "span": true, "strong": true, "em": true,
	"ul": true, "li": true, "br": true, "h3": true, "h4": true,
}

var allowedAttrs = map[string]bool{
	"class": true, "title": true,
}

// Sanitize reduces an untrusted HTML fragment to the small allowlist the
// panel renders. Disallowed elements are unwrapped (their text survives),
// except script and style whose content is dropped entirely.
func Sanitize(fragment string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return Escape(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return b.String()
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if name == "script" || name == "style" {
			return
		}
		if !allowedTags[name] {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeSanitized(b, c)
			}
			return
		}
		b.WriteString("<" + name)
		for _, a := range n.Attr {
			if allowedAttrs[strings.ToLower(a.Key)] {
				b.WriteString(" " + strings.ToLower(a.Key) + `="` + html.EscapeString(a.Val) + `"`)
			}
		}
		b.WriteString(">")
		if name == "br" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
		b.WriteString("</" + name + ">")
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
	}
}
