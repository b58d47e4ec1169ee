package vdi

import "github.com/pkg/errors"

var (
	// ErrValidation marks an outbound payload that is missing required data.
	ErrValidation = errors.New("validation error")
	// ErrInvalidXML marks an inbound body that is not well-formed XML.
	ErrInvalidXML = errors.New("invalid xml")
	// ErrInvalidInnerXML marks an embedded VDIXML payload that does not parse.
	ErrInvalidInnerXML = errors.New("invalid embedded vdi xml")
	// ErrMissingElement marks a document that lacks a required element.
	ErrMissingElement = errors.New("missing element")
)

func validationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
