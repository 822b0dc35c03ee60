package content

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips inline markup from a description and unescapes
// entities, leaving the text that is actually rendered.
func PlainText(desc string) string {
	if !strings.ContainsAny(desc, "<&") {
		return desc
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(desc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Span is a run of description text with its inline emphasis.
type Span struct {
	Text   string `json:"text"`
	Strong bool   `json:"strong,omitempty"`
	Code   bool   `json:"code,omitempty"`
}

// Spans splits a description into runs by its <strong> and <code> tags.
// Other tags are dropped, keeping their text.
func Spans(desc string) []Span {
	var (
		spans        []Span
		strong, code int
	)
	z := html.NewTokenizer(strings.NewReader(desc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return spans
		case html.TextToken:
			text := string(z.Text())
			if text == "" {
				continue
			}
			s := Span{Text: text, Strong: strong > 0, Code: code > 0}
			if n := len(spans); n > 0 && spans[n-1].Strong == s.Strong && spans[n-1].Code == s.Code {
				spans[n-1].Text += text
				continue
			}
			spans = append(spans, s)
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			delta := 1
			if tt == html.EndTagToken {
				delta = -1
			}
			switch string(name) {
			case "strong", "b":
				strong = max(0, strong+delta)
			case "code":
				code = max(0, code+delta)
			}
		}
	}
}
