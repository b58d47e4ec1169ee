package seedapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/internal/vdi"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) (*Client, *[]time.Duration) {
	cfg := config.Default()
	cfg.SEED.TestURL = url
	cfg.SEED.Username = "user"
	cfg.SEED.Password = "secret"
	cfg.SEED.MaxRetries = 2
	cfg.SEED.BackoffMS = 100

	c := NewClient(cfg, metrics.NewRegistry())
	var delays []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return c, &delays
}

func TestPostSendsHeadersAndAuth(t *testing.T) {
	Assert := assert.New(t)

	var got *http.Request
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, "<ok/>")
	}))
	defer srv.Close()

	c, delays := newTestClient(srv.URL)
	resp, err := c.Post(context.Background(), "<soap/>")
	require.NoError(t, err)

	Assert.Equal(http.StatusOK, resp.StatusCode)
	Assert.Equal("<ok/>", resp.Body)
	Assert.Equal(1, resp.Attempts)
	Assert.Empty(*delays)
	Assert.Equal("<soap/>", body)
	Assert.Equal(ContentType, got.Header.Get("Content-Type"))
	Assert.Equal(`"urn:VDIDataExchangeService/VDIDataExchange"`, got.Header.Get("SOAPAction"))
	Assert.True(strings.HasPrefix(got.Header.Get("User-Agent"), "seedvdi/"))
	user, pass, ok := got.BasicAuth()
	Assert.True(ok)
	Assert.Equal("user", user)
	Assert.Equal("secret", pass)
}

func TestPostRetriesServerErrors(t *testing.T) {
	Assert := assert.New(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "done")
	}))
	defer srv.Close()

	c, delays := newTestClient(srv.URL)
	resp, err := c.Post(context.Background(), "<soap/>")
	require.NoError(t, err)
	Assert.Equal(3, resp.Attempts)
	Assert.Equal([]time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestPostExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	_, err := c.Post(context.Background(), "<soap/>")
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "denied")
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	resp, err := c.Post(context.Background(), "<soap/>")
	assert.True(t, errors.Is(err, ErrRejected))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type failingClient struct {
	calls int
}

func (f *failingClient) Do(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestPostRetriesTransportFailures(t *testing.T) {
	c, delays := newTestClient("http://seed.invalid/")
	fc := &failingClient{}
	c.WithHTTPClient(fc)

	_, err := c.Post(context.Background(), "<soap/>")
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 3, fc.calls)
	assert.Len(t, *delays, 2)
}

func TestSendVDIEmptySOAPAction(t *testing.T) {
	Assert := assert.New(t)

	var action, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action = r.Header.Get("SOAPAction")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	empty := ""
	c.SOAPAction = &empty

	h := vdi.Header{Type: vdi.TypeMarkets, ProviderID: "SWIFT"}.Complete()
	doc, err := vdi.BuildMarketsTransaction(h, vdi.MarketRecord{MarketID: "1", ClientID: "C", ClientName: "ACME", MarketName: "Lobby"})
	require.NoError(t, err)

	_, err = c.SendVDI(context.Background(), h, doc, vdi.EnvelopeRaw)
	require.NoError(t, err)
	Assert.Equal(`""`, action)
	Assert.True(strings.Contains(body, "<soap:Body>"))
	Assert.True(strings.Contains(body, `MarketID="1"`))
}
