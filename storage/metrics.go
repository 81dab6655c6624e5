// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts pushes, pops and write-path poisonings and gauges the
// chain height; file growth is not counted. Grounded on the
// teacher's use of prometheus for process introspection (announce/observer,
// reservoir/restorer). No HTTP exporter is wired here — networking is out
// of scope — the registry is exposed for an embedding process to scrape.
var (
	blocksPushedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindb",
		Name:      "blocks_pushed_total",
		Help:      "Number of blocks appended via Push.",
	})
	blocksPoppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindb",
		Name:      "blocks_popped_total",
		Help:      "Number of blocks removed via Pop.",
	})
	writePathPoisonedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chaindb",
		Name:      "write_path_poisoned_total",
		Help:      "Number of times a growth failure poisoned the write path.",
	})
	chainHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chaindb",
		Name:      "chain_height",
		Help:      "Height of the most recently pushed block.",
	})
)

// Registry exposes the chaindb metrics for an embedding process to
// register into its own prometheus.Registerer.
func Registry() []prometheus.Collector {
	return []prometheus.Collector{blocksPushedTotal, blocksPoppedTotal, writePathPoisonedTotal, chainHeight}
}
