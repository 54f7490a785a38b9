// Package metrics exposes the bot's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolutions counts equivalence lookups by outcome.
	// Labels: outcome (no_match, ambiguous_fixed, ambiguous_modular, no_equivalent, single, many)
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meercat",
		Subsystem: "resolver",
		Name:      "resolutions_total",
		Help:      "Equivalent switch lookups by outcome",
	}, []string{"outcome"})

	// Commands counts slash commands by name.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meercat",
		Subsystem: "bot",
		Name:      "commands_total",
		Help:      "Slash commands received by name",
	}, []string{"command"})

	// StoreErrors counts transactions that failed for reasons other than
	// caller input. Labels: op
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meercat",
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Catalog transactions aborted by store errors",
	}, []string{"op"})
)
