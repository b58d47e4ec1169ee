package httphandler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/internal/flatten"
	"SeedWithWarehouse/internal/ingest"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/internal/seedapi"
	"SeedWithWarehouse/internal/telegram"
	"SeedWithWarehouse/internal/vdi"
	"SeedWithWarehouse/internal/version"
	"SeedWithWarehouse/pkg/logging"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

// Inbound is the pipeline behind the receiving endpoints.
type Inbound interface {
	ProcessSOAP(ctx context.Context, raw []byte) (*flatten.Result, error)
	ProcessAny(ctx context.Context, raw []byte, expected string) (*flatten.Result, error)
}

// Sender posts outbound transactions to SEED.
type Sender interface {
	SendVDI(ctx context.Context, h vdi.Header, transaction string, mode vdi.Envelope) (*seedapi.Response, error)
	Headers() map[string]string
}

type Handler struct {
	cfg      *config.Config
	inbound  Inbound
	sender   Sender
	metrics  *metrics.Registry
	notifier telegram.Notifier
}

func New(cfg *config.Config, inbound Inbound, sender Sender, reg *metrics.Registry, notifier telegram.Notifier) *Handler {
	if notifier == nil {
		notifier = telegram.Nop{}
	}
	return &Handler{cfg: cfg, inbound: inbound, sender: sender, metrics: reg, notifier: notifier}
}

func (h *Handler) Router() *httprouter.Router {
	router := httprouter.New()

	router.GET("/", h.HandlerOtherAll)
	router.POST("/vdi/seed", h.basicAuth(h.HandlerSeedSOAP))
	router.POST("/receive/:type", h.basicAuth(h.HandlerReceive))
	router.POST("/send/:type", h.HandlerSend)
	router.POST("/debug/soap/:type", h.HandlerDebugSOAP)
	router.GET("/configs", h.HandlerConfigs)
	router.GET("/configs/:type", h.HandlerConfigsByType)
	if h.metrics != nil {
		router.Handler(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	return router
}

func (h *Handler) basicAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		logger := logging.GetLogger()
		user, pass, ok := r.BasicAuth()
		want := h.cfg.SERVICE
		if want.User == "" {
			logger.Warn("SERVICE.User is not configured, rejecting inbound request")
			ok = false
		}
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(want.User)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(want.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="vdi"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Unauthorized"})
			return
		}
		next(w, r, ps)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.GetLogger().Errorf("failed to send response, error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps pipeline errors to HTTP codes: malformed input is the
// caller's fault, exhausted retries are the upstream's.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vdi.ErrValidation),
		errors.Is(err, vdi.ErrInvalidXML),
		errors.Is(err, vdi.ErrInvalidInnerXML),
		errors.Is(err, vdi.ErrMissingElement),
		errors.Is(err, flatten.ErrNoMarkets),
		errors.Is(err, flatten.ErrInvalidValue),
		errors.Is(err, ingest.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, seedapi.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}
	return body, nil
}

func (h *Handler) HandlerOtherAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Debug("Start HandlerOtherAll")
	defer logger.Debug("End HandlerOtherAll")

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Seed VDI receiver is up",
		"version": version.GetVersion().String(),
	})
}

func (h *Handler) HandlerSeedSOAP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerSeedSOAP")
	defer logger.Info("End HandlerSeedSOAP")

	body, err := readBody(r)
	if err == nil {
		logger.Debug("body\n\t", string(body))
		_, err = h.inbound.ProcessSOAP(r.Context(), body)
	}

	status, code, description := http.StatusOK, vdi.ResultOK, "OK"
	if err != nil {
		status, code, description = statusFor(err), vdi.ResultError, err.Error()
		if status >= http.StatusInternalServerError {
			telegram.SendMessageWithLogError(h.notifier, fmt.Sprintf("failed to process inbound SOAP: %v", err))
		}
	}

	resp, err := vdi.BuildResponse(code, description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, resp); err != nil {
		logger.Errorf("failed to send response, error: %v", err)
	}
}

func (h *Handler) HandlerReceive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerReceive")
	defer logger.Info("End HandlerReceive")

	vdiType, ok := vdi.ResolveType(ps.ByName("type"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid VDI type: %s", ps.ByName("type"))})
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := h.inbound.ProcessAny(r.Context(), body, vdiType)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			telegram.SendMessageWithLogError(h.notifier, fmt.Sprintf("failed to process %s: %v", vdiType, err))
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("%s message processed", vdiType),
		"data":    res,
	})
}
