// Package metrics translates client events into StatsD metrics.
package metrics

import (
	"time"

	obserrors "github.com/tripmate/tripmate-client/internal/observability/errors"
	"github.com/tripmate/tripmate-client/internal/observability/statsd"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// QueryRecorder emits query cache telemetry to a StatsD sink.
// A nil sink drops everything.
type QueryRecorder struct {
	sink statsd.Sink
}

var _ querycache.Metrics = (*QueryRecorder)(nil)

// NewQueryRecorder constructs a QueryRecorder over sink.
func NewQueryRecorder(sink statsd.Sink) *QueryRecorder {
	return &QueryRecorder{sink: sink}
}

// FetchCompleted records one remote read, including its retries.
func (r *QueryRecorder) FetchCompleted(entity string, d time.Duration, err error) {
	r.emit("query.fetch", resultTags(map[string]string{"entity": entity}, err), d)
}

// CacheHit records a read served from fresh cached data.
func (r *QueryRecorder) CacheHit(entity string) {
	if r == nil || r.sink == nil {
		return
	}
	r.sink.Count("query.cache_hit", 1, map[string]string{"entity": entity})
}

// MutationCompleted records one remote write.
func (r *QueryRecorder) MutationCompleted(name string, d time.Duration, err error) {
	r.emit("mutation.result", resultTags(map[string]string{"mutation": name}, err), d)
}

func (r *QueryRecorder) emit(name string, tags map[string]string, d time.Duration) {
	if r == nil || r.sink == nil {
		return
	}
	r.sink.Count(name, 1, tags)
	if d > 0 {
		r.sink.Timing(name+".duration", d, CloneTags(tags))
	}
}

func resultTags(tags map[string]string, err error) map[string]string {
	tags["result"] = ResultSuccess
	if err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	return tags
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
