package seedapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/internal/vdi"
	"SeedWithWarehouse/internal/version"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
)

const ContentType = "text/xml; charset=utf-8"

var (
	// ErrTransport marks a send that failed on every attempt with a network
	// error, a timeout or a 5xx status.
	ErrTransport = errors.New("SEED transport error")
	// ErrRejected marks a 4xx answer. It is never retried.
	ErrRejected = errors.New("SEED rejected the request")
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Response struct {
	StatusCode int
	Body       string
	Attempts   int
}

type Client struct {
	URL        string
	Username   string
	Password   string
	SOAPAction *string
	MaxRetries int
	Backoff    time.Duration

	http    HTTPClient
	sleep   func(ctx context.Context, d time.Duration) error
	metrics *metrics.Registry
}

func NewClient(cfg *config.Config, reg *metrics.Registry) *Client {
	return &Client{
		URL:        cfg.SeedURL(),
		Username:   cfg.SEED.Username,
		Password:   cfg.SEED.Password,
		SOAPAction: cfg.SOAPAction(),
		MaxRetries: cfg.SEED.MaxRetries,
		Backoff:    time.Duration(cfg.SEED.BackoffMS) * time.Millisecond,
		http:       &http.Client{Timeout: time.Duration(cfg.SEED.Timeout) * time.Second},
		sleep:      sleepContext,
		metrics:    reg,
	}
}

// WithHTTPClient replaces the transport, mostly for tests.
func (c *Client) WithHTTPClient(h HTTPClient) *Client {
	c.http = h
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Headers returns the request headers of an outbound SOAP post.
func (c *Client) Headers() map[string]string {
	return map[string]string{
		"Content-Type": ContentType,
		"SOAPAction":   vdi.SOAPActionHeader(c.SOAPAction),
		"User-Agent":   version.GetVersion().UserAgent(),
	}
}

// Post sends a SOAP document, retrying network errors, timeouts and 5xx
// answers with a doubling delay.
func (c *Client) Post(ctx context.Context, soap string) (*Response, error) {
	logger := logging.GetLogger()
	logger.Debug("Start Client.Post")
	defer logger.Debug("End Client.Post")

	attempts := c.MaxRetries + 1
	delay := c.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if c.metrics != nil {
				c.metrics.OutboundRetries.Inc()
			}
			logger.Warnf("Retrying SEED post in %s (attempt %d of %d): %v", delay, attempt, attempts, lastErr)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, errors.Wrap(ErrTransport, err.Error())
			}
			delay *= 2
		}

		resp, err := c.do(ctx, soap)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Attempts = attempt
		switch {
		case resp.StatusCode >= 500:
			lastErr = errors.Errorf("status %d: %s", resp.StatusCode, resp.Body)
			continue
		case resp.StatusCode >= 400:
			return resp, errors.Wrapf(ErrRejected, "status %d: %s", resp.StatusCode, resp.Body)
		}
		return resp, nil
	}
	return nil, errors.Wrapf(ErrTransport, "%d attempts to %s failed, last error: %v", attempts, c.URL, lastErr)
}

func (c *Client) do(ctx context.Context, soap string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(soap))
	if err != nil {
		return nil, errors.Wrapf(err, "http.NewRequest")
	}
	for k, v := range c.Headers() {
		req.Header.Set(k, v)
	}
	req.SetBasicAuth(c.Username, c.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed in client.Do")
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response body")
	}
	return &Response{StatusCode: resp.StatusCode, Body: string(content)}, nil
}

// SendVDI wraps a transaction document per mode and posts it.
func (c *Client) SendVDI(ctx context.Context, h vdi.Header, transaction string, mode vdi.Envelope) (*Response, error) {
	logger := logging.GetLogger()
	logger.Info("Start Client.SendVDI")
	defer logger.Info("End Client.SendVDI")

	soap, err := vdi.ComposeSOAP(h, transaction, mode)
	if err != nil {
		return nil, err
	}
	logger.Debugf("SOAP request:\n%s", soap)

	resp, err := c.Post(ctx, soap)
	if c.metrics != nil {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		c.metrics.OutboundSends.WithLabelValues(h.Type, result).Inc()
	}
	if err != nil {
		return resp, err
	}
	logger.Infof("Sent %s transaction %s, status %d", h.Type, h.TransactionID, resp.StatusCode)
	return resp, nil
}

func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.StatusCode, r.Body)
}
