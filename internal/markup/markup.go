// Package markup converts, sanitizes and inspects the HTML used for offer
// bodies and rendered documents.
package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// ToHTML converts Markdown to HTML. Tier tables use the GFM table syntax.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown to html: %w", err)
	}
	return buf.String(), nil
}

var htmlTagRe = regexp.MustCompile(`(?i)<\s*/?\s*(h[1-6]|p|ul|ol|li|strong|b|em|i|br|table|tr|td|th|div|span|a)\b[^>]*>`)

// LooksLikeHTML reports whether s contains at least one common HTML tag.
func LooksLikeHTML(s string) bool {
	return htmlTagRe.MatchString(s)
}

// allowed is the semantic subset kept in offer bodies.
var allowed = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Br: true, atom.Hr: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Strong: true, atom.B: true, atom.Em: true, atom.I: true,
	atom.Table: true, atom.Thead: true, atom.Tbody: true, atom.Tr: true, atom.Th: true, atom.Td: true,
	atom.A: true, atom.Blockquote: true,
}

// dropped elements are removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Object: true,
	atom.Embed: true, atom.Head: true, atom.Title: true, atom.Noscript: true, atom.Template: true,
}

var void = map[atom.Atom]bool{atom.Br: true, atom.Hr: true}

func parseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// Sanitize keeps only the semantic subset: headings, paragraphs, lists,
// emphasis, tables and http(s)/mailto links. Other elements are unwrapped;
// scripts and styles are removed with their content; attributes other than
// link targets are stripped.
func Sanitize(s string) (string, error) {
	nodes, err := parseFragment(s)
	if err != nil {
		return "", fmt.Errorf("sanitize: %w", err)
	}
	var buf strings.Builder
	for _, n := range nodes {
		writeClean(&buf, n)
	}
	return strings.TrimSpace(buf.String()), nil
}

func writeClean(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		if dropped[n.DataAtom] {
			return
		}
		if allowed[n.DataAtom] {
			buf.WriteString("<" + n.Data)
			if n.DataAtom == atom.A {
				if href := safeHref(n); href != "" {
					buf.WriteString(` href="` + html.EscapeString(href) + `"`)
				}
			}
			buf.WriteString(">")
			if void[n.DataAtom] {
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeClean(buf, c)
			}
			buf.WriteString("</" + n.Data + ">")
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeClean(buf, c)
	}
}

func safeHref(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key != "href" {
			continue
		}
		v := strings.TrimSpace(a.Val)
		lower := strings.ToLower(v)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "mailto:") {
			return v
		}
	}
	return ""
}

var block = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Br: true, atom.Hr: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Blockquote: true, atom.Section: true,
	atom.Td: true, atom.Th: true, atom.Title: true, atom.Header: true, atom.Footer: true,
}

// Text returns the visible text of an HTML document or fragment, one block
// per line. Script and style content is skipped.
func Text(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && block[n.DataAtom] {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Sentences splits the visible text into sentences: each block is split
// after '.', '!' or '?' followed by whitespace.
func Sentences(s string) []string {
	var out []string
	for _, line := range strings.Split(Text(s), "\n") {
		start := 0
		runes := []rune(line)
		for i, r := range runes {
			if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && runes[i+1] == ' ' {
				if seg := strings.TrimSpace(string(runes[start : i+1])); seg != "" {
					out = append(out, seg)
				}
				start = i + 1
			}
		}
		if seg := strings.TrimSpace(string(runes[start:])); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
