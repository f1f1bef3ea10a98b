package store

import (
	"context"
	"time"

	"webviz-hq/layoutd/pkg/telemetry/metrics"
)

// instrumented records every call of the wrapped backend in metrics.
type instrumented struct {
	Backend
	metrics *metrics.Collector
}

// Instrument wraps backend so that each operation is counted and the stored
// document gauge follows writes. A nil collector returns backend unchanged.
func Instrument(backend Backend, collector *metrics.Collector) Backend {
	if collector == nil {
		return backend
	}
	return &instrumented{Backend: backend, metrics: collector}
}

func (b *instrumented) Save(ctx context.Context, doc *Document) error {
	err := b.Backend.Save(ctx, doc)
	b.metrics.RecordStoreOperation("put", err)
	b.refreshCount(ctx, err)
	return err
}

func (b *instrumented) Load(ctx context.Context, id string) (*Document, error) {
	doc, err := b.Backend.Load(ctx, id)
	b.metrics.RecordStoreOperation("get", err)
	return doc, err
}

func (b *instrumented) Delete(ctx context.Context, id string) error {
	err := b.Backend.Delete(ctx, id)
	b.metrics.RecordStoreOperation("delete", err)
	b.refreshCount(ctx, err)
	return err
}

func (b *instrumented) List(ctx context.Context) ([]*Document, error) {
	docs, err := b.Backend.List(ctx)
	b.metrics.RecordStoreOperation("list", err)
	if err == nil {
		b.metrics.SetStoredDocuments(len(docs))
	}
	return docs, err
}

func (b *instrumented) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	n, err := b.Backend.Cleanup(ctx, olderThan)
	b.metrics.RecordStoreOperation("prune", err)
	b.refreshCount(ctx, err)
	return n, err
}

func (b *instrumented) refreshCount(ctx context.Context, opErr error) {
	if opErr != nil {
		return
	}
	if n, err := b.Backend.Count(ctx); err == nil {
		b.metrics.SetStoredDocuments(n)
	}
}
