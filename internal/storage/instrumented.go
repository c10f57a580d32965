package storage

import (
	"context"
	"goods-tracker/prometheus"
	"time"
)

type instrumentedStore struct {
	Store
}

// WithMetrics wraps s so every load and save records its duration
func WithMetrics(s Store) Store {
	return instrumentedStore{Store: s}
}

func (s instrumentedStore) Load(ctx context.Context) ([]byte, error) {
	defer prometheus.TrackStorageOperation(s.Driver(), "load")(time.Now())
	return s.Store.Load(ctx)
}

func (s instrumentedStore) Save(ctx context.Context, data []byte) error {
	defer prometheus.TrackStorageOperation(s.Driver(), "save")(time.Now())
	return s.Store.Save(ctx, data)
}
