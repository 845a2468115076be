package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// elements that visually break a line, their position becomes a space so
// "Dr. Ahmad<br>Saleh" reads "Dr. Ahmad Saleh"
var breakingElements = map[string]bool{
	"br":  true,
	"p":   true,
	"div": true,
	"li":  true,
}

// GetText concatenates every text node under `node` in document order.
func GetText(node *html.Node) string {
	var out strings.Builder
	writeText(&out, node)
	return out.String()
}

func writeText(out *strings.Builder, node *html.Node) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		out.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if breakingElements[node.Data] {
			out.WriteByte(' ')
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(out, child)
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText drops control and zero-width runes, then collapses every run of
// whitespace into one space and trims the result.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// SelectionText is CleanText over the text of every node in `sel`, empty
// parts are skipped and the rest joined with a space.
func SelectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		if text := CleanText(GetText(n)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
