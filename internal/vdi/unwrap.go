package vdi

import (
	"bytes"
	"strings"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Message is a parsed inbound VDI document: the VDITransaction root and the
// VDIXMLType it declares.
type Message struct {
	Type string
	Root *etree.Element
}

func parseDocument(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// findVDIElement tries the VDIDataExchange namespace first and falls back to
// a local-name match.
func findVDIElement(root *etree.Element, local string) *etree.Element {
	if el := findByNamespace(root, models.NamespaceVDI, local); el != nil {
		return el
	}
	return FindByLocalName(root, local)
}

// UnwrapSOAP extracts the VDI type and the embedded VDITransaction from a SOAP
// envelope carrying a VDIDataExchange element.
func UnwrapSOAP(raw []byte) (*Message, error) {
	root, err := parseDocument(bytes.TrimSpace(raw))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidXML, "%v", err)
	}

	typeEl := findVDIElement(root, "VDIXMLType")
	if typeEl == nil {
		return nil, errors.Wrap(ErrMissingElement, "cannot find <VDIXMLType> inside SOAP body")
	}
	payload := findVDIElement(root, "VDIXML")
	if payload == nil {
		return nil, errors.Wrap(ErrMissingElement, "cannot find <VDIXML> inside SOAP body")
	}
	return unwrapPayload(strings.TrimSpace(typeEl.Text()), payload)
}

func unwrapPayload(vdiType string, payload *etree.Element) (*Message, error) {
	text := strings.TrimSpace(payload.Text())
	if text == "" {
		return nil, errors.Wrap(ErrMissingElement, "<VDIXML> exists but is empty")
	}
	inner, err := parseDocument([]byte(UnescapeHTMLEntities(text)))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInnerXML, "%v", err)
	}
	if vdiType == "" {
		vdiType = AttrValue(inner, "VDIXMLType")
	}
	return &Message{Type: vdiType, Root: inner}, nil
}

// Decode accepts either a SOAP envelope with an embedded VDIXML payload or a
// bare VDITransaction document, possibly wrapped in other elements.
func Decode(raw []byte) (*Message, error) {
	root, err := parseDocument(bytes.TrimSpace(raw))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidXML, "%v", err)
	}

	if payload := findVDIElement(root, "VDIXML"); payload != nil {
		vdiType := ""
		if typeEl := findVDIElement(root, "VDIXMLType"); typeEl != nil {
			vdiType = strings.TrimSpace(typeEl.Text())
		}
		return unwrapPayload(vdiType, payload)
	}

	tx := FindByLocalName(root, "VDITransaction")
	if tx == nil {
		return nil, errors.Wrap(ErrMissingElement, "cannot find <VDITransaction>")
	}
	return &Message{Type: AttrValue(tx, "VDIXMLType"), Root: tx}, nil
}
