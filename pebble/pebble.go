// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble stores simulator state on disk. It satisfies the
// avalanchego key/value interfaces so it can back [state.Database] in place
// of memdb.
package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slices"
)

var _ database.KeyValueReaderWriterDeleter = (*Database)(nil)

type Config struct {
	CacheSize                   int    `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

type Database struct {
	db      *pebble.DB
	wOpts   *pebble.WriteOptions
	metrics *metrics

	closeOnce sync.Once
	closing   chan struct{}
}

// New opens (or creates) the store in [dir]. The returned registry holds
// the store's metrics and is refreshed until [Database.Close].
func New(dir string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		closing: make(chan struct{}),
		wOpts:   pebble.NoSync,
	}
	if cfg.Sync {
		d.wOpts = pebble.Sync
	}

	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.BytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, updateError(err)
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()
	return slices.Clone(data), nil
}

func (db *Database) Put(key []byte, value []byte) error {
	if err := db.db.Set(key, value, db.wOpts); err != nil {
		return updateError(err)
	}
	db.metrics.writes.Inc()
	return nil
}

func (db *Database) Delete(key []byte) error {
	if err := db.db.Delete(key, db.wOpts); err != nil {
		return updateError(err)
	}
	db.metrics.deletes.Inc()
	return nil
}

func (db *Database) NewBatch() *Batch {
	return &Batch{db: db, batch: db.db.NewBatch()}
}

func (db *Database) Close() error {
	err := database.ErrClosed
	db.closeOnce.Do(func() {
		close(db.closing)
		err = updateError(db.db.Close())
	})
	return err
}

// Batch buffers writes until [Batch.Write].
type Batch struct {
	db    *Database
	batch *pebble.Batch
}

func (b *Batch) Put(key []byte, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

func (b *Batch) Size() int {
	return b.batch.Len()
}

func (b *Batch) Write() error {
	if err := b.batch.Commit(b.db.wOpts); err != nil {
		return updateError(err)
	}
	b.db.metrics.batches.Inc()
	return nil
}

func (b *Batch) Reset() {
	b.batch.Reset()
}

func updateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}
