package vdi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeAttribute(t *testing.T) {
	Assert := assert.New(t)

	Assert.Equal("", EscapeAttribute(nil))
	Assert.Equal("plain", EscapeAttribute("plain"))
	Assert.Equal("a&amp;b&lt;&quot;&apos;&gt;", EscapeAttribute(`a&b<"'>`))
	Assert.Equal("&amp;amp;", EscapeAttribute("&amp;"))
	Assert.Equal("12", EscapeAttribute(12))
}

func TestEscapeForEmbeddingRoundTrip(t *testing.T) {
	docs := []string{
		`<?xml version="1.0" encoding="utf-8"?>` + "\n" + `<VDITransaction VDIXMLType="mms-sales"><Sales/></VDITransaction>`,
		`<a b='single' c="double">text &amp; more</a>`,
		`<Market MarketName="Woody's Premium Barrels" />`,
	}
	for _, doc := range docs {
		escaped := EscapeForEmbedding(doc)
		assert.NotContains(t, escaped, "<")
		assert.NotContains(t, escaped, `"`)
		assert.Equal(t, doc, UnescapeHTMLEntities(escaped))
	}
}

func TestUnescapeHTMLEntitiesHandlesRicherEncoders(t *testing.T) {
	assert.Equal(t, `<a b="c" d='e'>&</a>`, UnescapeHTMLEntities("&lt;a b=&#34;c&#34; d=&#39;e&#39;&gt;&amp;&lt;/a&gt;"))
	assert.Equal(t, "caf\u00e9 \u00a0", UnescapeHTMLEntities("caf&eacute; &nbsp;"))
}

func TestFormatCurrency(t *testing.T) {
	Assert := assert.New(t)

	Assert.Equal("0.00", FormatCurrency(nil))
	Assert.Equal("0.00", FormatCurrency(""))
	Assert.Equal("3.00", FormatCurrency("3"))
	Assert.Equal("abc", FormatCurrency("abc"))
	Assert.Equal("2.50", FormatCurrency(2.5))
	Assert.Equal("10.00", FormatCurrency(10))
	Assert.Equal("4.10", FormatCurrency(" 4.1 "))
	Assert.Equal("1.25", FormatCurrency(json.Number("1.25")))
	Assert.Equal("-0.50", FormatCurrency("-0.5"))
	Assert.Equal("0.11", FormatCurrency("0.11200"))
}
