package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCountsAndServes(t *testing.T) {
	Assert := assert.New(t)

	reg := NewRegistry()
	reg.Inbound.WithLabelValues("mms-sales", ResultOK).Inc()
	reg.RowsMerged.WithLabelValues("vdi_sales").Add(3)
	reg.OutboundRetries.Inc()

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	Assert.True(strings.Contains(string(body), `seedvdi_rows_merged_total{table="vdi_sales"} 3`))
	Assert.True(strings.Contains(string(body), "seedvdi_outbound_retries_total 1"))
	Assert.True(strings.Contains(string(body), `seedvdi_inbound_messages_total{result="ok",type="mms-sales"} 1`))
}
