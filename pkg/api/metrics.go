package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "six_cities_client",
		Name:      "requests_total",
		Help:      "Requests completed by the API client, by method and result code.",
	},
	[]string{"method", "code"},
)

const codeOK = "OK"
