package metric

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpers(t *testing.T) {
	m := NewMetrics()

	m.RecordAccepted()
	m.RecordAccepted()
	m.RecordDispatched()
	m.RecordIgnored()
	m.RecordDropped()
	m.RecordSendFailure()
	m.RecordReceiveError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionsAccepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TriggersDispatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TriggersIgnored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TriggersDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SendFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReceiveErrors))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	// None of these may panic.
	m.RecordAccepted()
	m.RecordDispatched()
	m.RecordIgnored()
	m.RecordDropped()
	m.RecordSendFailure()
	m.RecordReceiveError()
	assert.Nil(t, m.Registry())
}

func TestServerServesScrapeEndpoint(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatched()

	srv := NewServer("127.0.0.1:0", m)
	require.NoError(t, srv.Start())
	defer func() { _ = srv.Stop() }()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "notesock_triggers_dispatched_total 1"))
}

func TestServerStartTwiceFails(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewMetrics())
	require.NoError(t, srv.Start())
	defer func() { _ = srv.Stop() }()

	assert.Error(t, srv.Start())
}

func TestServerStopWithoutStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewMetrics())
	assert.NoError(t, srv.Stop())
}

func TestServerBadAddress(t *testing.T) {
	srv := NewServer("not-an-address", NewMetrics())
	assert.Error(t, srv.Start())
}
