package vdi

import (
	"encoding/xml"
	"strings"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/pkg/errors"
)

const DefaultSOAPAction = "urn:VDIDataExchangeService/VDIDataExchange"

// BuildDataExchange embeds a serialized VDITransaction into a VDIDataExchange
// element. The document is embedding-escaped here and escaped once more by
// the XML encoder, so a reader that parses the wrapper and then unescapes
// the VDIXML text gets the original document back.
func BuildDataExchange(h Header, transaction string) (string, error) {
	h = h.Complete()
	dx := models.VDIDataExchange{
		XMLNS:              models.NamespaceVDI,
		XMLNSNs2:           models.NamespaceSerializer,
		VDIXMLVersion:      h.XMLVersion,
		VDIXMLType:         h.Type,
		ProviderID:         h.ProviderID,
		ApplicationID:      h.ApplicationID,
		ApplicationVersion: h.ApplicationVersion,
		TransactionID:      h.TransactionID,
		TransactionTime:    h.TransactionTime,
		OperatorID:         h.OperatorID,
		CompressionType:    models.NewNilElement(),
		CompressionParam:   models.NewNilElement(),
		Encoding:           h.Encoding,
		VDIXML: models.VDIXML{
			XMLNSNs3: models.NamespaceVDI,
			Content:  EscapeForEmbedding(transaction),
		},
		UserData: models.NewNilElement(),
	}
	out, err := xml.MarshalIndent(dx, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal VDIDataExchange")
	}
	return string(out), nil
}

// WrapInSOAP places body inside a SOAP 1.1 envelope. A leading XML
// declaration on body is dropped.
func WrapInSOAP(body string) (string, error) {
	env := models.SOAPEnvelope{
		XMLNSSoap: models.NamespaceSOAP,
		Body:      models.SOAPBody{Content: "\n" + stripDeclaration(body) + "\n"},
	}
	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal soap envelope")
	}
	return xmlDeclaration + string(out), nil
}

// SOAPActionHeader returns the quoted SOAPAction value. nil selects the
// default action and an empty string yields "".
func SOAPActionHeader(action *string) string {
	if action == nil {
		return `"` + DefaultSOAPAction + `"`
	}
	return `"` + *action + `"`
}

func stripDeclaration(doc string) string {
	doc = strings.TrimSpace(doc)
	if strings.HasPrefix(doc, "<?xml") {
		if end := strings.Index(doc, "?>"); end >= 0 {
			doc = strings.TrimSpace(doc[end+2:])
		}
	}
	return doc
}

// Envelope selects what goes into the SOAP body of an outbound send.
type Envelope string

const (
	EnvelopeDataExchange Envelope = "dataexchange"
	EnvelopeRaw          Envelope = "raw"
)

// ComposeSOAP builds the complete SOAP text for a transaction document.
func ComposeSOAP(h Header, transaction string, mode Envelope) (string, error) {
	body := transaction
	if mode != EnvelopeRaw {
		var err error
		if body, err = BuildDataExchange(h, transaction); err != nil {
			return "", err
		}
	}
	return WrapInSOAP(body)
}
