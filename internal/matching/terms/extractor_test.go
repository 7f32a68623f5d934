package terms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-platform/internal/common/llm"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/matching"
)

type stubCompleter struct {
	calls  atomic.Int32
	answer string
	err    error
	delay  time.Duration
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.answer, s.err
}

func newTestExtractor(t *testing.T, cfg Config, completer llm.Completer) *Extractor {
	t.Helper()
	e, err := NewExtractor(cfg, completer, logger.NewTestLogger(t))
	require.NoError(t, err)
	return e
}

// ==========================
// Sources
// ==========================

func TestExtract_UsesModelAnswer(t *testing.T) {
	stub := &stubCompleter{answer: `{"python": 0.9, "sql": 0.7}`}
	e := newTestExtractor(t, Config{}, stub)

	got := e.Extract(context.Background(), "Python developer with SQL skills")

	assert.Equal(t, matching.TermWeights{"python": 0.9, "sql": 0.7}, got)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestExtract_NoCompleterTokenizes(t *testing.T) {
	e := newTestExtractor(t, Config{}, nil)

	got := e.Extract(context.Background(), "Python developer with SQL skills!!")

	assert.Equal(t, matching.TermWeights{"python": 1, "developer": 1, "with": 1, "skills": 1}, got)
}

func TestExtract_RequestErrorTokenizesInput(t *testing.T) {
	stub := &stubCompleter{err: llm.ErrLLMRequestFailed}
	e := newTestExtractor(t, Config{}, stub)

	got := e.Extract(context.Background(), "Kubernetes operator")

	assert.Equal(t, matching.TermWeights{"kubernetes": 1, "operator": 1}, got)
}

func TestExtract_TimeoutTokenizesInput(t *testing.T) {
	stub := &stubCompleter{answer: `{"ignored": 1}`, delay: time.Second}
	e := newTestExtractor(t, Config{Timeout: 20 * time.Millisecond}, stub)

	start := time.Now()
	got := e.Extract(context.Background(), "Terraform modules")

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, matching.TermWeights{"terraform": 1, "modules": 1}, got)
}

func TestExtract_UnparseableAnswerTokenizesAnswer(t *testing.T) {
	stub := &stubCompleter{answer: "The candidate knows Django and Flask"}
	e := newTestExtractor(t, Config{}, stub)

	got := e.Extract(context.Background(), "Python web work")

	assert.Equal(t, matching.TermWeights{
		"candidate": 1, "knows": 1, "django": 1, "flask": 1,
	}, got)
}

func TestExtract_EmptyTextStillReturnsMap(t *testing.T) {
	e := newTestExtractor(t, Config{}, &stubCompleter{err: errors.New("boom")})

	got := e.Extract(context.Background(), "")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ==========================
// Memoization
// ==========================

func TestExtract_MemoizesByExactText(t *testing.T) {
	stub := &stubCompleter{answer: `{"go": 0.8}`}
	e := newTestExtractor(t, Config{}, stub)
	ctx := context.Background()

	first := e.Extract(ctx, "Go services")
	second := e.Extract(ctx, "Go services")
	e.Extract(ctx, "go services")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestExtract_MemoizesFallbackResults(t *testing.T) {
	stub := &stubCompleter{err: llm.ErrLLMTimeout}
	e := newTestExtractor(t, Config{}, stub)
	ctx := context.Background()

	e.Extract(ctx, "Rust embedded")
	e.Extract(ctx, "Rust embedded")

	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestExtract_CancelledCallerDoesNotCacheFallback(t *testing.T) {
	stub := &stubCompleter{answer: `{"golang": 0.9}`, delay: 10 * time.Millisecond}
	e := newTestExtractor(t, Config{}, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := e.Extract(ctx, "Backend services in Go")
	second := e.Extract(context.Background(), "Backend services in Go")

	assert.Equal(t, matching.TermWeights{"golang": 0.9}, first)
	assert.Equal(t, matching.TermWeights{"golang": 0.9}, second)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestExtract_EvictsLeastRecentlyUsed(t *testing.T) {
	stub := &stubCompleter{answer: `{"term": 0.5}`}
	e := newTestExtractor(t, Config{CacheSize: 2}, stub)
	ctx := context.Background()

	e.Extract(ctx, "one")
	e.Extract(ctx, "two")
	e.Extract(ctx, "one")
	e.Extract(ctx, "three")
	assert.Equal(t, 2, e.cache.len())
	assert.Equal(t, int32(3), stub.calls.Load())

	e.Extract(ctx, "one")
	assert.Equal(t, int32(3), stub.calls.Load())

	e.Extract(ctx, "two")
	assert.Equal(t, int32(4), stub.calls.Load())
}

func TestExtract_DefaultCacheSize(t *testing.T) {
	stub := &stubCompleter{answer: `{"term": 0.5}`}
	e := newTestExtractor(t, Config{}, stub)
	ctx := context.Background()

	for i := 0; i < DefaultCacheSize+20; i++ {
		e.Extract(ctx, fmt.Sprintf("text-%d", i))
	}
	assert.Equal(t, DefaultCacheSize, e.cache.len())
}

func TestExtract_ConcurrentMissesShareOneCall(t *testing.T) {
	stub := &stubCompleter{answer: `{"java": 0.9}`, delay: 50 * time.Millisecond}
	e := newTestExtractor(t, Config{}, stub)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, matching.TermWeights{"java": 0.9}, e.Extract(context.Background(), "Java backend"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), stub.calls.Load())
}
