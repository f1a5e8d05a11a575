package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atharv3903/logiroute/internal/api"
	"github.com/atharv3903/logiroute/internal/config"
	"github.com/atharv3903/logiroute/internal/loader"
	"github.com/atharv3903/logiroute/internal/metrics"
	"github.com/atharv3903/logiroute/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentiles(t *testing.T) {
	var l []time.Duration
	for i := 100; i >= 1; i-- {
		l = append(l, time.Duration(i)*time.Millisecond)
	}
	p50, p95, p99 := percentiles(l)
	assert.Equal(t, 51*time.Millisecond, p50)
	assert.Equal(t, 96*time.Millisecond, p95)
	assert.Equal(t, 100*time.Millisecond, p99)
	assert.Equal(t, 100*time.Millisecond, l[0], "input left unsorted")

	assert.Equal(t, 50500*time.Microsecond, average(l))
}

func TestRecorder(t *testing.T) {
	var a, b recorder
	a.record(time.Millisecond, true, nil)
	a.record(time.Millisecond, false, nil)
	b.record(0, false, assert.AnError)
	b.record(3*time.Millisecond, true, nil)
	a.merge(b)

	res := a.result(2, time.Second)
	assert.Equal(t, int64(4), res.Requests)
	assert.Equal(t, int64(1), res.Errors)
	assert.InDelta(t, 66.67, res.HitRate, 0.01)
	assert.Equal(t, 4.0, res.Throughput)
	assert.Len(t, a.latencies, 3)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, []result{{Clients: 2, Avg: 1500 * time.Microsecond, Requests: 10, Throughput: 5}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2,1.500,0.000,0.000,0.000,5.00,0,10", lines[1])
}

func TestRunAgainstServer(t *testing.T) {
	g, err := loader.Default()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cfg := config.Default()
	svc := service.NewRoutingService(g, service.Config{CacheSize: 64, QueryTimeout: time.Second}, m, logger)
	ts := httptest.NewServer(api.New(svc, cfg, m, reg, logger))
	defer ts.Close()

	csvPath := filepath.Join(t.TempDir(), "results.csv")
	var out bytes.Buffer
	err = run(context.Background(), &out, options{
		server:     ts.URL,
		duration:   200 * time.Millisecond,
		sweep:      []int{1, 2},
		csv:        csvPath,
		clearCache: true,
		seed:       7,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "loaded 13 nodes")
	assert.Contains(t, out.String(), "Errors: 0\n")
	assert.Contains(t, out.String(), "clients,avg_ms")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)
}
