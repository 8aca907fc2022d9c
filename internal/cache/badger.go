package cache

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/nerdwave-nick/pokeview/internal/metrics"
)

const badgerLayer = "badger"

// BadgerCache is the persistent layer; entries expire after TTL.
type BadgerCache struct {
	db      *badger.DB
	TTL     time.Duration
	metrics *metrics.Metrics
}

func NewBadgerCache(db *badger.DB, ttl time.Duration, m *metrics.Metrics) *BadgerCache {
	return &BadgerCache{db: db, TTL: ttl, metrics: m}
}

func (c *BadgerCache) putItem(key string, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value).WithTTL(c.TTL)
		return txn.SetEntry(e)
	})
}

func (c *BadgerCache) Set(endpoint string, value any) error {
	slog.Debug("writing to badger cache", slog.String("endpoint", endpoint))
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.putItem(endpoint, bytes)
}

func (c *BadgerCache) getItem(key string) ([]byte, error) {
	var bytes []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		bytes, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return bytes, err
}

func (c *BadgerCache) Get(endpoint string, value any) (bool, error) {
	bytes, err := c.getItem(endpoint)
	if err != nil {
		slog.Error("checking badger cache", slog.String("endpoint", endpoint), slog.Any("error", err))
		return false, err
	}
	if bytes == nil {
		c.metrics.CacheMiss(badgerLayer)
		return false, nil
	}
	c.metrics.CacheHit(badgerLayer)
	return true, json.Unmarshal(bytes, value)
}
