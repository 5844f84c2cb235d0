package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

type metricCall struct {
	kind  string
	name  string
	value any
	tags  map[string]string
}

type fakeSink struct {
	mu    sync.Mutex
	calls []metricCall
}

func (s *fakeSink) Count(name string, value int64, tags map[string]string) {
	s.record("count", name, value, tags)
}

func (s *fakeSink) Gauge(name string, value float64, tags map[string]string) {
	s.record("gauge", name, value, tags)
}

func (s *fakeSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.record("timing", name, value, tags)
}

func (s *fakeSink) record(kind, name string, value any, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, metricCall{kind: kind, name: name, value: value, tags: tags})
}

func TestQueryRecorder_FetchSuccess(t *testing.T) {
	sink := &fakeSink{}
	NewQueryRecorder(sink).FetchCompleted("listings", 25*time.Millisecond, nil)

	require.Len(t, sink.calls, 2)
	assert.Equal(t, metricCall{"count", "query.fetch", int64(1), map[string]string{"entity": "listings", "result": "success"}}, sink.calls[0])
	assert.Equal(t, "query.fetch.duration", sink.calls[1].name)
	assert.Equal(t, 25*time.Millisecond, sink.calls[1].value)
}

func TestQueryRecorder_MutationErrorIsClassified(t *testing.T) {
	sink := &fakeSink{}
	r := NewQueryRecorder(sink)

	r.MutationCompleted("createTrip", 0, apperrors.RemoteFailure(errors.New("boom"), "Failed"))
	require.Len(t, sink.calls, 1, "zero duration skips the timing")
	assert.Equal(t, map[string]string{
		"mutation":    "createTrip",
		"result":      "error",
		"error_class": "remote_call_failure",
	}, sink.calls[0].tags)
}

func TestQueryRecorder_CacheHit(t *testing.T) {
	sink := &fakeSink{}
	NewQueryRecorder(sink).CacheHit("profile")
	require.Len(t, sink.calls, 1)
	assert.Equal(t, "query.cache_hit", sink.calls[0].name)
}

func TestQueryRecorder_NilSafe(t *testing.T) {
	var r *QueryRecorder
	assert.NotPanics(t, func() {
		r.CacheHit("x")
		r.FetchCompleted("x", time.Second, nil)
		NewQueryRecorder(nil).MutationCompleted("m", time.Second, nil)
	})
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	dst := CloneTags(src)
	dst["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
