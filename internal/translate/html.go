package translate

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose text content must never be translated.
var skipElements = map[string]bool{
	"script": true,
	"style":  true,
	"code":   true,
	"pre":    true,
}

// HTML translates the text nodes of an HTML fragment, leaving tags,
// attributes, and code blocks untouched. A fragment that fails to parse
// is translated as plain text instead.
func (s *Service) HTML(ctx context.Context, fragment, targetLang string) string {
	if !s.Enabled() || strings.TrimSpace(fragment) == "" {
		return fragment
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return s.Text(ctx, fragment, targetLang)
	}

	for _, n := range nodes {
		s.walk(ctx, n, targetLang)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return s.Text(ctx, fragment, targetLang)
		}
	}
	return sb.String()
}

func (s *Service) walk(ctx context.Context, n *html.Node, targetLang string) {
	if n.Type == html.ElementNode && skipElements[n.Data] {
		return
	}
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
		n.Data = s.Text(ctx, n.Data, targetLang)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.walk(ctx, c, targetLang)
	}
}

// bodyContext returns a body element to parse fragments against.
func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}
