// Package utils provides common string and HTTP helpers.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

// TruncateTail is appended to strings shortened by Truncate.
const TruncateTail = "..."

// rawTextElements are the elements whose contents the tokenizer returns as
// one unparsed text token.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}

// StripTags removes HTML tags and comments, keeping text exactly as written.
// Markup inside raw text elements such as noscript or iframe is stripped too.
// Entities are not decoded.
func StripTags(str string) string {
	if !strings.ContainsAny(str, "<>") {
		return str
	}

	var sb strings.Builder

	z := html.NewTokenizer(strings.NewReader(str))
	inRawText := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is the result.
			return sb.String()
		case html.TextToken:
			if inRawText {
				// The contents are shorter than str, so this terminates.
				sb.WriteString(StripTags(string(z.Raw())))
			} else {
				sb.Write(z.Raw())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			inRawText = rawTextElements[string(name)]

			continue
		}

		inRawText = false
	}
}

// Truncate shortens str to at most maxWidth display cells, including the tail.
// A non-positive maxWidth disables truncation.
func Truncate(str string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, TruncateTail)
}

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}
