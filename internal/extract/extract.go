package extract

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Text converts raw HTML into one normalized line of visible text. The parse
// is permissive: malformed or partial markup never fails, it just yields
// whatever text survives. Empty input yields an empty string.
//
// Removed before collection: script and style subtrees, inline-XBRL elements
// (tag names under the "ix:" namespace prefix, which duplicate visible text
// or inject machine-readable tokens), and any element whose inline style
// declares display:none.
func Text(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	doc.Find("script,style").Remove()
	doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.HasPrefix(strings.ToLower(goquery.NodeName(s)), "ix:")
	}).Remove()
	doc.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		return isHiddenStyle(style)
	}).Remove()

	var parts []string
	for _, n := range doc.Selection.Nodes {
		collectText(n, &parts)
	}
	return collapseSpaces(norm.NFC.String(strings.Join(parts, " ")))
}

// isHiddenStyle matches a display:none declaration case-insensitively and
// independent of internal whitespace in the style string.
func isHiddenStyle(style string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(style))
	return strings.Contains(compact, "display:none")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// collapseSpaces folds every whitespace run, newlines and tabs included, to
// a single space and trims the ends.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}
