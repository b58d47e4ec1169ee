package httphandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"SeedWithWarehouse/internal/presets"
	"SeedWithWarehouse/internal/seedapi"
	"SeedWithWarehouse/internal/telegram"
	"SeedWithWarehouse/internal/vdi"
	"SeedWithWarehouse/pkg/logging"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

// selectorError is returned when a send request names neither a record id
// nor a preset.
type selectorError struct {
	kind     string
	selector string
	required []string
}

func (e *selectorError) Error() string {
	return fmt.Sprintf("Either '%s' or 'config_name' must be provided", e.selector)
}

// Outbound is a transaction ready to be wrapped and sent.
type Outbound struct {
	Header      vdi.Header
	Transaction string
	Mode        vdi.Envelope
	Applied     map[string]interface{}
}

func decodeRequest(r *http.Request) (map[string]interface{}, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}
	req := make(map[string]interface{})
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		return nil, errors.Wrap(vdi.ErrValidation, "request body must be a JSON object")
	}
	return req, nil
}

func stringField(req map[string]interface{}, key string) string {
	if v, ok := req[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func records(req map[string]interface{}, key string) []map[string]interface{} {
	list, ok := req[key].([]interface{})
	if !ok {
		return []map[string]interface{}{req}
	}
	var out []map[string]interface{}
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func (h *Handler) header(vdiType, operatorID string) vdi.Header {
	if operatorID == "" {
		operatorID = h.cfg.VDI.OperatorID
	}
	return vdi.Header{
		XMLVersion:         h.cfg.VDI.XMLVersion,
		Type:               vdiType,
		ProviderID:         h.cfg.VDI.ProviderID,
		ApplicationID:      h.cfg.VDI.ApplicationID,
		ApplicationVersion: h.cfg.VDI.ApplicationVersion,
		OperatorID:         operatorID,
		Encoding:           h.cfg.VDI.Encoding,
	}.Complete()
}

func (h *Handler) envelope(req map[string]interface{}, fallback vdi.Envelope) (vdi.Envelope, error) {
	switch mode := vdi.Envelope(stringField(req, "envelope")); mode {
	case "":
		return fallback, nil
	case vdi.EnvelopeDataExchange, vdi.EnvelopeRaw:
		return mode, nil
	default:
		return "", errors.Wrapf(vdi.ErrValidation, "envelope must be %s or %s", vdi.EnvelopeDataExchange, vdi.EnvelopeRaw)
	}
}

// Compose builds the transaction a send or debug request describes.
func (h *Handler) Compose(kind string, req map[string]interface{}) (*Outbound, error) {
	configName := stringField(req, "config_name")
	if configName == "" {
		configName = presets.DefaultName
	}
	preset, _ := presets.Get(kind, configName)
	operatorID := stringField(req, "operator_id")
	if operatorID == "" {
		operatorID = stringField(preset, "operator_id")
	}

	out := &Outbound{Applied: map[string]interface{}(preset)}
	var err error
	switch kind {
	case "markets":
		if stringField(req, "market_id") == "" && stringField(req, "config_name") == "" && req["markets"] == nil {
			return nil, &selectorError{kind: kind, selector: "market_id", required: []string{"market_id", "market_name", "client_id", "client_name"}}
		}
		if out.Mode, err = h.envelope(req, vdi.EnvelopeRaw); err != nil {
			return nil, err
		}
		var markets []vdi.MarketRecord
		for _, payload := range records(req, "markets") {
			markets = append(markets, vdi.MarketFromPayload(payload, preset))
		}
		out.Header = h.header(vdi.TypeMarkets, operatorID)
		out.Transaction, err = vdi.BuildMarketsTransaction(out.Header, markets...)
		if len(markets) == 1 {
			out.Applied = structMap(markets[0])
		}
	case "products":
		if stringField(req, "product_id") == "" && stringField(req, "config_name") == "" && req["products"] == nil {
			return nil, &selectorError{kind: kind, selector: "product_id", required: []string{"product_id", "product_name", "market_id"}}
		}
		if out.Mode, err = h.envelope(req, vdi.EnvelopeRaw); err != nil {
			return nil, err
		}
		var products []vdi.ProductRecord
		for _, payload := range records(req, "products") {
			products = append(products, vdi.ProductFromPayload(payload, preset))
		}
		out.Header = h.header(vdi.TypeProducts, operatorID)
		out.Transaction, err = vdi.BuildProductsTransaction(out.Header, products...)
		if len(products) == 1 {
			out.Applied = structMap(products[0])
		}
	case "sales":
		if out.Mode, err = h.envelope(req, vdi.Envelope(h.cfg.VDI.Envelope)); err != nil {
			return nil, err
		}
		sales := vdi.SalesFromRequest(req)
		for _, sale := range sales {
			applySaleDefaults(sale, preset)
		}
		out.Header = h.header(vdi.TypeSales, operatorID)
		out.Transaction, err = vdi.BuildSalesTransaction(out.Header, sales)
	default:
		return nil, errors.Wrapf(vdi.ErrValidation, "Invalid VDI type: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applySaleDefaults fills a sale's market and kiosk from the preset when the
// sale names neither spelling.
func applySaleDefaults(sale interface{}, preset presets.Preset) {
	m, ok := sale.(map[string]interface{})
	if !ok {
		return
	}
	for _, f := range []struct{ pascal, snake string }{
		{"MarketID", "market_id"},
		{"KioskID", "kiosk_id"},
	} {
		if _, ok := m[f.pascal]; ok {
			continue
		}
		if _, ok := m[f.snake]; ok {
			continue
		}
		if v, ok := preset[f.snake]; ok {
			m[f.pascal] = v
		}
	}
}

func structMap(v interface{}) map[string]interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	out := make(map[string]interface{})
	_ = json.Unmarshal(b, &out)
	return out
}

func (h *Handler) writeComposeError(w http.ResponseWriter, err error) {
	var sel *selectorError
	if errors.As(err, &sel) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":           fmt.Sprintf("%s validation failed", sel.kind),
			"message":         sel.Error(),
			"required_fields": sel.required,
		})
		return
	}
	writeError(w, statusFor(err), err)
}

func (h *Handler) HandlerSend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerSend")
	defer logger.Info("End HandlerSend")

	kind := ps.ByName("type")
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out, err := h.Compose(kind, req)
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	resp, err := h.sender.SendVDI(r.Context(), out.Header, out.Transaction, out.Mode)
	if err != nil && !errors.Is(err, seedapi.ErrRejected) {
		status := statusFor(err)
		telegram.SendMessageWithLogError(h.notifier, fmt.Sprintf("failed to send %s transaction %s: %v", out.Header.Type, out.Header.TransactionID, err))
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         resp.StatusCode,
		"response":       resp.Body,
		"vdi_type":       out.Header.Type,
		"operator_id":    out.Header.OperatorID,
		"transaction_id": out.Header.TransactionID,
		"envelope":       out.Mode,
		"config_applied": out.Applied,
	})
}

func (h *Handler) HandlerDebugSOAP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerDebugSOAP")
	defer logger.Info("End HandlerDebugSOAP")

	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out, err := h.Compose(ps.ByName("type"), req)
	if err != nil {
		h.writeComposeError(w, err)
		return
	}
	soap, err := vdi.ComposeSOAP(out.Header, out.Transaction, out.Mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"soap":           soap,
		"headers":        h.sender.Headers(),
		"transaction_id": out.Header.TransactionID,
	})
}

func (h *Handler) HandlerConfigs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "success",
		"available_configs": presets.All(),
		"message":           "Use 'config_name' parameter in POST requests to select specific templates",
	})
}

func (h *Handler) HandlerConfigsByType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	configs, ok := presets.Kind(ps.ByName("type"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid VDI type: %s", ps.ByName("type"))})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "configs": configs})
}
