package collectors

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

func ReportGaugeMetric(ch chan<- prometheus.Metric, desc *prometheus.Desc, value float64, labelValues ...string) {
	metric, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, value, labelValues...)
	if err != nil {
		slog.Error("Failed to create gauge metric", "error", err)
	} else {
		ch <- metric
	}
}

func ReportInvalidMetric(ch chan<- prometheus.Metric, desc *prometheus.Desc, err error) {
	ch <- prometheus.NewInvalidMetric(desc, err)
}
