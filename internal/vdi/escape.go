package vdi

import (
	"html"
	"strings"
)

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeAttribute escapes a value for use inside a double or single quoted
// XML attribute. A nil value yields the empty string.
func EscapeAttribute(value interface{}) string {
	if value == nil {
		return ""
	}
	s, _ := stringify(value)
	return attrReplacer.Replace(s)
}

// EscapeForEmbedding escapes a complete XML document so that it can be carried
// as the text of another element. The ampersand is replaced first.
func EscapeForEmbedding(doc string) string {
	return attrReplacer.Replace(doc)
}

// UnescapeHTMLEntities reverses EscapeForEmbedding and also resolves numeric
// and named HTML entities.
func UnescapeHTMLEntities(s string) string {
	return html.UnescapeString(s)
}
