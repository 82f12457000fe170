package lexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricTokenizePasses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scriptrunner",
		Subsystem: "lexer",
		Name:      "tokenize_passes_total",
		Help:      "Total number of incremental tokenization passes",
	})
	metricLineLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriptrunner",
		Subsystem: "lexer",
		Name:      "line_cache_lookups_total",
		Help:      "Total number of line cache lookups, per result (hit, miss)",
	}, []string{"result"})
	metricInvalidatedLines = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scriptrunner",
		Subsystem: "lexer",
		Name:      "invalidated_lines_total",
		Help:      "Total number of cached lines evicted by downstream invalidation",
	})
)

const (
	metricResultHit  = "hit"
	metricResultMiss = "miss"
)

func init() {
	metricLineLookups.WithLabelValues(metricResultHit)
	metricLineLookups.WithLabelValues(metricResultMiss)
}
