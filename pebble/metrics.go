// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "amm_store"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	writes  prometheus.Counter
	deletes prometheus.Counter
	batches prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	// refreshed from [pebble.Metrics] every [metricsInterval]
	tombstoneCount    prometheus.Gauge
	obsoleteTableSize prometheus.Gauge
	zombieTableSize   prometheus.Gauge
	obsoleteWALSize   prometheus.Gauge
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	writeStall, err := metric.NewAverager(
		"",
		namespace+"_write_stall",
		"time spent waiting for disk write",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	getLatency, err := metric.NewAverager(
		"",
		namespace+"_read_latency",
		"time spent waiting for a state read",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		writes:     newCounter("writes", "number of state values written"),
		deletes:    newCounter("deletes", "number of state values removed"),
		batches:    newCounter("batches", "number of batches committed"),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: newGauge("active_compactions", "number of active compactions"),
		tombstoneCount:    newGauge("tombstone_count", "approximate count of internal tombstones"),
		obsoleteTableSize: newGauge("obsolete_table_size", "number of bytes present in tables no longer referenced by the db"),
		zombieTableSize:   newGauge("zombie_table_size", "number of bytes present in tables still referenced by iterators"),
		obsoleteWALSize:   newGauge("obsolete_wal_size", "number of bytes present in WAL no longer needed by the db"),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writes),
		r.Register(m.deletes),
		r.Register(m.batches),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTableSize),
		r.Register(m.zombieTableSize),
		r.Register(m.obsoleteWALSize),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			stats := db.db.Metrics()
			db.metrics.tombstoneCount.Set(float64(stats.Keys.TombstoneCount))
			db.metrics.obsoleteTableSize.Set(float64(stats.Table.ObsoleteSize))
			db.metrics.zombieTableSize.Set(float64(stats.Table.ZombieSize))
			db.metrics.obsoleteWALSize.Set(float64(stats.WAL.ObsoletePhysicalSize))
		case <-db.closing:
			return
		}
	}
}
