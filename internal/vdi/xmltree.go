package vdi

import (
	"strings"

	"github.com/beevik/etree"
)

// LocalName strips a "{uri}" or "prefix:" qualifier from a tag. Inbound
// senders do not agree on namespace prefixes, so lookups compare local names.
func LocalName(tag string) string {
	if strings.HasPrefix(tag, "{") {
		if i := strings.Index(tag, "}"); i >= 0 {
			tag = tag[i+1:]
		}
	}
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		tag = tag[i+1:]
	}
	return tag
}

// FindByLocalName returns the first element in document order, root
// included, whose local name is local.
func FindByLocalName(root *etree.Element, local string) *etree.Element {
	if root == nil {
		return nil
	}
	if LocalName(root.Tag) == local {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := FindByLocalName(child, local); found != nil {
			return found
		}
	}
	return nil
}

// findByNamespace is FindByLocalName restricted to elements in namespace uri.
func findByNamespace(root *etree.Element, uri, local string) *etree.Element {
	if root == nil {
		return nil
	}
	if LocalName(root.Tag) == local && root.NamespaceURI() == uri {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := findByNamespace(child, uri, local); found != nil {
			return found
		}
	}
	return nil
}

// Child returns the first direct child of el with the given local name.
func Child(el *etree.Element, local string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if LocalName(child.Tag) == local {
			return child
		}
	}
	return nil
}

// Children returns every direct child of el with the given local name.
func Children(el *etree.Element, local string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if LocalName(child.Tag) == local {
			out = append(out, child)
		}
	}
	return out
}

// Attr returns the named attribute and whether it was present.
func Attr(el *etree.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// AttrValue returns the named attribute or the empty string.
func AttrValue(el *etree.Element, name string) string {
	v, _ := Attr(el, name)
	return v
}
