package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// recordingSave captures every persisted patch.
type recordingSave struct {
	mu      sync.Mutex
	patches []ports.DocumentPatch
	err     error
}

func (r *recordingSave) save(_ context.Context, patch ports.DocumentPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, patch)
	return r.err
}

func (r *recordingSave) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

func (r *recordingSave) last() ports.DocumentPatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patches[len(r.patches)-1]
}

func scratchPatch(s string) ports.DocumentPatch {
	return ports.DocumentPatch{Scratchpad: &s}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	rec := &recordingSave{}
	d := New(20*time.Millisecond, time.Second, rec.save, nil, logger.NewNop(), nil)

	for i := 0; i < 5; i++ {
		d.Schedule(scratchPatch("v5"))
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	// Only the final state was written.
	assert.Equal(t, "v5", *rec.last().Scratchpad)

	// Quiescence: no further writes happen.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestDebouncerLatestPatchWins(t *testing.T) {
	rec := &recordingSave{}
	d := New(15*time.Millisecond, time.Second, rec.save, nil, logger.NewNop(), nil)

	d.Schedule(scratchPatch("first"))
	d.Schedule(scratchPatch("second"))
	d.Schedule(scratchPatch("third"))

	require.NoError(t, d.Flush(context.Background()))
	require.GreaterOrEqual(t, rec.count(), 1)
	assert.Equal(t, "third", *rec.last().Scratchpad)
}

func TestDebouncerFailureDoesNotBlockNextWrite(t *testing.T) {
	rec := &recordingSave{err: errors.New("disk full")}
	var gotErr error
	var mu sync.Mutex
	onError := func(err error) {
		mu.Lock()
		gotErr = err
		mu.Unlock()
	}
	d := New(10*time.Millisecond, time.Second, rec.save, onError, logger.NewNop(), nil)

	d.Schedule(scratchPatch("doomed"))
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.EqualError(t, gotErr, "disk full")
	mu.Unlock()

	// The store recovers; the next mutation persists normally.
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()

	d.Schedule(scratchPatch("recovered"))
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "recovered", *rec.last().Scratchpad)
}

func TestDebouncerFlushWithNothingPending(t *testing.T) {
	rec := &recordingSave{}
	d := New(10*time.Millisecond, time.Second, rec.save, nil, logger.NewNop(), nil)

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, 0, rec.count())
}

func TestDebouncerCloseRejectsFurtherSchedules(t *testing.T) {
	rec := &recordingSave{}
	d := New(10*time.Millisecond, time.Second, rec.save, nil, logger.NewNop(), nil)

	d.Schedule(scratchPatch("final"))
	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, 1, rec.count())

	d.Schedule(scratchPatch("ignored"))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}
