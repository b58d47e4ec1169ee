package vdi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const innerMarkets = `&lt;VDITransaction VDIXMLType=&quot;mms-markets&quot; TransactionID=&quot;T1&quot;&gt;&lt;MarketsCollection&gt;&lt;Market MarketID=&quot;1&quot;/&gt;&lt;/MarketsCollection&gt;&lt;/VDITransaction&gt;`

func soapWith(typeEl, payloadEl string) string {
	return `
  <s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
    <s:Body>` + typeEl + payloadEl + `</s:Body>
  </s:Envelope>
`
}

func TestUnwrapSOAPNamespaced(t *testing.T) {
	raw := soapWith(
		`<v:VDIDataExchange xmlns:v="urn:VDIDataExchangeService"><v:VDIXMLType>mms-markets</v:VDIXMLType>`,
		`<v:VDIXML>`+innerMarkets+`</v:VDIXML></v:VDIDataExchange>`,
	)

	msg, err := UnwrapSOAP([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, TypeMarkets, msg.Type)
	assert.Equal(t, "VDITransaction", msg.Root.Tag)
	assert.Equal(t, "T1", AttrValue(msg.Root, "TransactionID"))
	assert.Len(t, Children(Child(msg.Root, "MarketsCollection"), "Market"), 1)
}

func TestUnwrapSOAPLocalNameFallback(t *testing.T) {
	raw := soapWith(
		`<x:Exchange xmlns:x="urn:other"><x:VDIXMLType> mms-markets </x:VDIXMLType>`,
		`<VDIXML>`+innerMarkets+`</VDIXML></x:Exchange>`,
	)

	msg, err := UnwrapSOAP([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, TypeMarkets, msg.Type)
}

func TestUnwrapSOAPFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"not xml", "this is not xml", ErrInvalidXML},
		{"unclosed", "<a><b></a>", ErrInvalidXML},
		{"empty body", "   ", ErrInvalidXML},
		{"no type", soapWith("", `<VDIXML>`+innerMarkets+`</VDIXML>`), ErrMissingElement},
		{"no payload", soapWith(`<VDIXMLType>mms-markets</VDIXMLType>`, ""), ErrMissingElement},
		{"empty payload", soapWith(`<VDIXMLType>mms-markets</VDIXMLType>`, "<VDIXML>  </VDIXML>"), ErrMissingElement},
		{"bad inner", soapWith(`<VDIXMLType>mms-markets</VDIXMLType>`, "<VDIXML>&lt;VDITransaction&gt;&lt;Oops&gt;</VDIXML>"), ErrInvalidInnerXML},
	}
	for _, c := range cases {
		t.Logf("Test case: %s", c.name)
		_, err := UnwrapSOAP([]byte(c.raw))
		require.Error(t, err)
		assert.True(t, errors.Is(err, c.want), "got %v", err)
	}
}

func TestDecodeBareTransaction(t *testing.T) {
	raw := `<?xml version="1.0"?>
<Wrapper xmlns:k="urn:kiosks">
  <k:VDITransaction VDIXMLType="mms-kiosks" TransactionID="T9">
    <k:KiosksCollection><k:Kiosk MarketID="1" KioskID="1-K"/></k:KiosksCollection>
  </k:VDITransaction>
</Wrapper>`

	msg, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, TypeKiosks, msg.Type)
	assert.Equal(t, "T9", AttrValue(msg.Root, "TransactionID"))
	assert.Len(t, Children(Child(msg.Root, "KiosksCollection"), "Kiosk"), 1)
}

func TestDecodeTypeFromInnerRoot(t *testing.T) {
	raw := soapWith("", `<VDIXML>`+innerMarkets+`</VDIXML>`)

	msg, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, TypeMarkets, msg.Type)
}

func TestDecodeWithoutTransaction(t *testing.T) {
	_, err := Decode([]byte("<Envelope><Body/></Envelope>"))
	assert.True(t, errors.Is(err, ErrMissingElement))
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "VDIXML", LocalName("{urn:VDIDataExchangeService}VDIXML"))
	assert.Equal(t, "VDIXML", LocalName("ns3:VDIXML"))
	assert.Equal(t, "VDIXML", LocalName("VDIXML"))
}

func TestResolveType(t *testing.T) {
	got, ok := ResolveType("collections")
	assert.True(t, ok)
	assert.Equal(t, TypeCollections, got)

	got, ok = ResolveType("mms-products")
	assert.True(t, ok)
	assert.Equal(t, TypeProducts, got)

	_, ok = ResolveType("orders")
	assert.False(t, ok)
}
