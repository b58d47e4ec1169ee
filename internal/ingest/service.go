package ingest

import (
	"bytes"
	"context"
	"fmt"

	"SeedWithWarehouse/internal/flatten"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/internal/telegram"
	"SeedWithWarehouse/internal/vdi"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
)

// ErrTypeMismatch marks a document whose VDIXMLType differs from the type the
// caller expected.
var ErrTypeMismatch = errors.New("VDIXMLType does not match")

// Service is the inbound pipeline: decode, flatten, load.
type Service struct {
	flattener *flatten.Flattener
	loader    *Loader
	join      bool
	metrics   *metrics.Registry
	notifier  telegram.Notifier
}

type Options struct {
	// JoinProducts loads the products_joined table instead of the four
	// normalized product tables.
	JoinProducts bool
	Metrics      *metrics.Registry
	Notifier     telegram.Notifier
}

func NewService(f *flatten.Flattener, l *Loader, opts Options) *Service {
	n := opts.Notifier
	if n == nil {
		n = telegram.Nop{}
	}
	return &Service{
		flattener: f,
		loader:    l,
		join:      opts.JoinProducts,
		metrics:   opts.Metrics,
		notifier:  n,
	}
}

func (s *Service) count(vdiType string, err error) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	s.metrics.Inbound.WithLabelValues(vdiType, result).Inc()
}

// Process flattens msg and loads every resulting row-set.
func (s *Service) Process(ctx context.Context, msg *vdi.Message) (res *flatten.Result, err error) {
	logger := logging.GetLogger()
	logger.Info("Start Service.Process")
	defer logger.Info("End Service.Process")

	if msg == nil {
		return nil, errors.Wrap(vdi.ErrMissingElement, "no VDI message")
	}
	defer func() { s.count(msg.Type, err) }()

	res, err = s.flattener.Flatten(msg)
	if err != nil {
		return nil, err
	}
	for _, set := range res.RowSets(s.join) {
		if _, err = s.loader.Load(ctx, s.loader.TableID(set.Table), set.Records); err != nil {
			telegram.SendMessageWithLogError(s.notifier, fmt.Sprintf("failed to load %s rows of %s: %v", set.Table, msg.Type, err))
			return nil, err
		}
	}
	logger.Infof("Processed %s transaction %s", msg.Type, transactionID(res))
	return res, nil
}

func transactionID(res *flatten.Result) string {
	if res == nil || res.Transaction == nil {
		return ""
	}
	return res.Transaction.TransactionID
}

// ProcessSOAP handles a SOAP envelope carrying a VDIDataExchange element.
func (s *Service) ProcessSOAP(ctx context.Context, raw []byte) (*flatten.Result, error) {
	msg, err := vdi.UnwrapSOAP(raw)
	if err != nil {
		s.rejected(err, raw)
		return nil, err
	}
	return s.Process(ctx, msg)
}

// ProcessAny accepts a SOAP envelope or a bare VDITransaction. With a
// non-empty expected type the document must declare the same type or none.
func (s *Service) ProcessAny(ctx context.Context, raw []byte, expected string) (*flatten.Result, error) {
	msg, err := vdi.Decode(raw)
	if err != nil {
		s.rejected(err, raw)
		return nil, err
	}
	if expected != "" {
		if msg.Type != "" && msg.Type != expected {
			err := errors.Wrapf(ErrTypeMismatch, "expected %s, got %s", expected, msg.Type)
			s.rejected(err, raw)
			return nil, err
		}
		msg.Type = expected
	}
	return s.Process(ctx, msg)
}

func (s *Service) rejected(err error, raw []byte) {
	logger := logging.GetLogger()
	logger.Errorf("rejected inbound VDI payload: %v; payload:\n%s", err, raw)
	s.count("unknown", err)
}

// HandleBrokerMessage feeds a relayed message into the pipeline. Bodies that
// are not VDI XML are logged and dropped.
func (s *Service) HandleBrokerMessage(ctx context.Context, headers map[string]string, body []byte) error {
	logger := logging.GetLogger()
	logger.Debugf("Broker message headers: %v", headers)

	if !LooksLikeVDI(body) {
		logger.Infof("Dropping non-VDI broker message (%d bytes)", len(body))
		return nil
	}
	if _, err := s.ProcessAny(ctx, body, ""); err != nil {
		telegram.SendMessageWithLogError(s.notifier, fmt.Sprintf("failed to process relayed VDI message: %v", err))
		return err
	}
	return nil
}

// LooksLikeVDI reports whether body is XML that mentions a VDI element.
func LooksLikeVDI(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}
	return bytes.Contains(trimmed, []byte("VDITransaction")) || bytes.Contains(trimmed, []byte("VDIXML"))
}
