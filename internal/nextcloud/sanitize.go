package nextcloud

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxMessageLen bounds the body text carried in an APIError.
const maxMessageLen = 512

// looksLikeHTML reports whether a response body should be treated as markup.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	return bytes.Contains(bytes.ToLower(body), []byte("<html"))
}

// stripMarkup returns the text content of an HTML document, skipping
// script and style elements.
func stripMarkup(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isInvisible(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isInvisible(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isInvisible(tag []byte) bool {
	switch string(tag) {
	case "script", "style":
		return true
	}
	return false
}

// errorMessage turns a failed response body into a single line of text.
func errorMessage(contentType string, body []byte) string {
	text := string(body)
	if looksLikeHTML(contentType, body) {
		text = stripMarkup(body)
	}
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, maxMessageLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
