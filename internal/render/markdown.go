// Package render turns model answers into display formats.
package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	fencedCode = regexp.MustCompile("(?s)```(.*?)```")
	inlineCode = regexp.MustCompile("`([^`\n]*)`")
	bold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italic     = regexp.MustCompile(`\*(.*?)\*`)
)

const (
	preOpen  = `<pre class="bg-gray-100 p-2 rounded my-2"><code>`
	preClose = `</code></pre>`
	codeOpen = `<code class="bg-gray-100 px-1 rounded">`
)

// MarkdownToHTML converts the small markdown subset models emit in chat
// answers: bold, italic, fenced and inline code, and line breaks.
// Text is HTML-escaped first.
func MarkdownToHTML(s string) string {
	if s == "" {
		return ""
	}
	s = html.EscapeString(s)

	s = fencedCode.ReplaceAllString(s, preOpen+"$1"+preClose)
	s = inlineCode.ReplaceAllString(s, codeOpen+"$1</code>")
	s = bold.ReplaceAllString(s, "<strong>$1</strong>")
	s = italic.ReplaceAllString(s, "<em>$1</em>")

	return strings.ReplaceAll(s, "\n", "<br>")
}
