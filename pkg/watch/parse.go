package watch

import (
	"context"

	"webviz-hq/layoutd/pkg/worker"
)

// ParseFunc receives the outcome of parsing one version of the file.
type ParseFunc func(resp worker.Response, err error)

// ParseInto returns an onChange callback for Watch that sends every version
// of the file to w as a Parse request and hands the result to fn.
func ParseInto(ctx context.Context, w *worker.Worker, fn ParseFunc) func([]byte) {
	return func(data []byte) {
		fn(w.Do(ctx, worker.ParseRequest(string(data))))
	}
}
