package vdi

import (
	"encoding/xml"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/pkg/errors"
)

const (
	ResultOK    = 0
	ResultError = 1
)

// BuildResponse renders the SOAP answer of the inbound endpoint.
func BuildResponse(code int, description string) (string, error) {
	resp := models.VDIDataExchangeResponse{XMLNS: models.NamespaceVDI}
	resp.Result.ResultCode = code
	resp.Result.ResultDescription = description
	out, err := xml.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal VDIDataExchangeResponse")
	}
	return WrapInSOAP(string(out))
}
