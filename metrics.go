package bookql

import (
	"time"

	"github.com/jensneuse/graphql-go-tools/pkg/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered once per process, caddy config reloads provision new handlers sharing them.
var metrics = newMetrics(prometheus.DefaultRegisterer)

type Metrics struct {
	operationInFlight *prometheus.GaugeVec
	operationCount    *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	cachePasses       *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *Metrics {
	const ns, sub = "caddy", "http_bookql"

	factory := promauto.With(registerer)
	operationLabels := []string{"operation_type", "operation_name"}
	cacheLabels := []string{"operation_name"}
	cacheCounter := func(name, status string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      name,
			Help:      "Counter of graphql query operations have cache status's " + status + ".",
		}, cacheLabels)
	}

	return &Metrics{
		operationInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "operations_in_flight",
			Help:      "Number of graphql operations currently handled by this server.",
		}, operationLabels),
		operationCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "operation_total",
			Help:      "Counter of graphql operations served.",
		}, operationLabels),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "operation_duration",
			Help:      "Histogram of GraphQL operations execution duration.",
			Buckets:   prometheus.DefBuckets,
		}, operationLabels),
		cacheHits:   cacheCounter("cache_hits_total", "hit"),
		cacheMisses: cacheCounter("cache_misses_total", "miss"),
		cachePasses: cacheCounter("cache_passes_total", "pass"),
	}
}

type cacheMetrics interface {
	addMetricsCacheHit(*graphql.Request) error
	addMetricsCacheMiss(*graphql.Request) error
	addMetricsCachePass(*graphql.Request) error
}

func (h *Handler) addMetricsBeginRequest(request *graphql.Request) error {
	labels, err := h.metricsOperationLabels(request)

	if err != nil {
		return err
	}

	h.metrics.operationCount.With(labels).Inc()
	h.metrics.operationInFlight.With(labels).Inc()

	return nil
}

func (h *Handler) addMetricsEndRequest(request *graphql.Request, d time.Duration) error {
	labels, err := h.metricsOperationLabels(request)

	if err != nil {
		return err
	}

	h.metrics.operationInFlight.With(labels).Dec()
	h.metrics.operationDuration.With(labels).Observe(d.Seconds())

	return nil
}

func (h *Handler) addMetricsCacheHit(request *graphql.Request) error {
	return h.incCacheCounter(h.metrics.cacheHits, request)
}

func (h *Handler) addMetricsCacheMiss(request *graphql.Request) error {
	return h.incCacheCounter(h.metrics.cacheMisses, request)
}

func (h *Handler) addMetricsCachePass(request *graphql.Request) error {
	return h.incCacheCounter(h.metrics.cachePasses, request)
}

func (h *Handler) incCacheCounter(counter *prometheus.CounterVec, request *graphql.Request) error {
	labels, err := h.metricsCacheLabels(request)

	if err != nil {
		return err
	}

	counter.With(labels).Inc()

	return nil
}

func (h *Handler) metricsCacheLabels(request *graphql.Request) (map[string]string, error) {
	if err := h.ensureNormalized(request); err != nil {
		return nil, err
	}

	return map[string]string{
		"operation_name": request.OperationName,
	}, nil
}

func (h *Handler) metricsOperationLabels(request *graphql.Request) (map[string]string, error) {
	if err := h.ensureNormalized(request); err != nil {
		return nil, err
	}

	labels := map[string]string{
		"operation_name": request.OperationName,
		"operation_type": "unknown",
	}

	operationType, _ := request.OperationType()

	switch operationType {
	case graphql.OperationTypeQuery:
		labels["operation_type"] = "query"
	case graphql.OperationTypeMutation:
		labels["operation_type"] = "mutation"
	case graphql.OperationTypeSubscription:
		labels["operation_type"] = "subscription"
	}

	return labels, nil
}

func (h *Handler) ensureNormalized(request *graphql.Request) error {
	if request.IsNormalized() {
		return nil
	}

	return normalizeGraphqlRequest(h.schema, request)
}
