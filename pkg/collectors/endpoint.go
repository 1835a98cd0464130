package collectors

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/manifest-network/six-cities-client/pkg/api"
)

// EndpointCollector probes API paths through the client on every scrape.
type EndpointCollector struct {
	client  *api.Client
	paths   []string
	ctx     context.Context
	upDesc  *prometheus.Desc
	status  *prometheus.Desc
	latency *prometheus.Desc
}

func NewEndpointCollector(ctx context.Context, client *api.Client, paths []string) *EndpointCollector {
	return &EndpointCollector{
		client: client,
		paths:  paths,
		ctx:    ctx,
		upDesc: prometheus.NewDesc(
			prometheus.BuildFQName("six_cities", "endpoint", "up"),
			"Whether the last probe of the endpoint succeeded",
			[]string{"path"},
			nil,
		),
		status: prometheus.NewDesc(
			prometheus.BuildFQName("six_cities", "endpoint", "status"),
			"HTTP status of the last probe, 0 when no response was received",
			[]string{"path"},
			nil,
		),
		latency: prometheus.NewDesc(
			prometheus.BuildFQName("six_cities", "endpoint", "duration_seconds"),
			"Duration of the last probe",
			[]string{"path"},
			nil,
		),
	}
}

func (c *EndpointCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.upDesc
	ch <- c.status
	ch <- c.latency
}

func (c *EndpointCollector) Collect(ch chan<- prometheus.Metric) {
	if c.client == nil {
		ReportInvalidMetric(ch, c.upDesc, errors.New("API client is nil during collect"))
		return
	}

	var wg sync.WaitGroup
	for _, path := range c.paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			c.probe(ch, path)
		}(path)
	}
	wg.Wait()
}

func (c *EndpointCollector) probe(ch chan<- prometheus.Metric, path string) {
	start := time.Now()
	resp, err := c.client.Get(c.ctx, path, nil)
	elapsed := time.Since(start)

	up := 1.0
	status := 0
	if err != nil {
		up = 0
		status = api.StatusCode(err)
		slog.Warn("Endpoint probe failed", "path", path, "error", err)
	} else if resp != nil {
		status = resp.StatusCode()
	}

	ReportGaugeMetric(ch, c.upDesc, up, path)
	ReportGaugeMetric(ch, c.status, float64(status), path)
	ReportGaugeMetric(ch, c.latency, elapsed.Seconds(), path)
}
