package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observer(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.OnProgress(entity.Progress{State: entity.StateRunning, Checked: 7, Found: 2, AvgPrice: 12.5})
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Checked))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Found))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.AvgPrice))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Running))

	m.OnResult(entity.DomainResult{Domain: "quicklab.com", Extension: ".com", Price: 10})
	m.OnResult(entity.DomainResult{Domain: "neural.ai", Extension: ".ai", Price: 40})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResultsTotal.WithLabelValues("com")))

	m.ObserveCheck(entity.CheckRecord{Method: "dns", Verdict: "available", RTTMs: 30})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecksTotal.WithLabelValues("dns", "available")))

	m.OnStoreError(errors.New("disk full"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors))

	m.OnFinish(entity.Summary{State: entity.StateCancelled})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HuntsTotal.WithLabelValues("cancelled")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(nil)
	m.OnResult(entity.DomainResult{Extension: ".io", Price: 30})

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `domain_hunter_results_total{extension="io"} 1`)
}
