package vdi

import (
	"time"

	"github.com/google/uuid"
)

const transactionTimeLayout = "2006-01-02T15:04:05.000000Z"

var now = time.Now

// Header is the envelope metadata stamped on the VDITransaction root and
// repeated on the VDIDataExchange wrapper.
type Header struct {
	XMLVersion         string
	Type               string
	ProviderID         string
	ApplicationID      string
	ApplicationVersion string
	OperatorID         string
	TransactionID      string
	TransactionTime    string
	Encoding           string
}

// NewTransactionID returns a random UUID v4.
func NewTransactionID() string {
	return uuid.New().String()
}

// NewTransactionTime formats t in UTC with microsecond precision and a
// trailing Z.
func NewTransactionTime(t time.Time) string {
	return t.UTC().Format(transactionTimeLayout)
}

// Complete fills the generated fields that the caller left empty.
func (h Header) Complete() Header {
	if h.TransactionID == "" {
		h.TransactionID = NewTransactionID()
	}
	if h.TransactionTime == "" {
		h.TransactionTime = NewTransactionTime(now())
	}
	if h.XMLVersion == "" {
		h.XMLVersion = "1"
	}
	if h.Encoding == "" {
		h.Encoding = "UTF-8"
	}
	return h
}
