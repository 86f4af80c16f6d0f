package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/planner/models"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []*models.DrawingData
	calls int
}

func (r *recordingSaver) Save(_ context.Context, doc *models.DrawingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.saved = append(r.saved, doc)
	return nil
}

func (r *recordingSaver) snapshot() (int, []*models.DrawingData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, append([]*models.DrawingData(nil), r.saved...)
}

func docWithUnits(u models.Units) *models.DrawingData {
	d := models.NewDrawing()
	d.Units = u
	return d
}

func TestScheduleCoalescesBursts(t *testing.T) {
	rec := &recordingSaver{}
	a := New(rec, 30*time.Millisecond)

	for i := 0; i < 5; i++ {
		a.Schedule(docWithUnits(models.UnitsMetric))
	}
	last := docWithUnits(models.UnitsImperial)
	a.Schedule(last)

	assert.Eventually(t, func() bool {
		calls, _ := rec.snapshot()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	calls, saved := rec.snapshot()
	assert.Equal(t, 1, calls)
	assert.Same(t, last, saved[0])
}

func TestNewSaveCancelsInFlightSave(t *testing.T) {
	started := make(chan struct{}, 1)
	var mu sync.Mutex
	var canceled, written []models.Units

	saver := SaverFunc(func(ctx context.Context, doc *models.DrawingData) error {
		if doc.Units == models.UnitsMetric {
			started <- struct{}{}
			<-ctx.Done()
			mu.Lock()
			canceled = append(canceled, doc.Units)
			mu.Unlock()
			return ctx.Err()
		}
		mu.Lock()
		written = append(written, doc.Units)
		mu.Unlock()
		return nil
	})

	var reported []error
	a := New(saver, 10*time.Millisecond, WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))

	a.Schedule(docWithUnits(models.UnitsMetric))
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first save never started")
	}
	a.Schedule(docWithUnits(models.UnitsImperial))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(written) == 1 && len(canceled) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, a.Flush(context.Background()))
	assert.Empty(t, reported)
	assert.NoError(t, a.LastError())
}

func TestFlushWritesPendingImmediately(t *testing.T) {
	rec := &recordingSaver{}
	a := New(rec, time.Hour)

	doc := docWithUnits(models.UnitsImperial)
	a.Schedule(doc)
	require.NoError(t, a.Flush(context.Background()))

	calls, saved := rec.snapshot()
	assert.Equal(t, 1, calls)
	assert.Same(t, doc, saved[0])

	// nothing pending: flush is a no-op
	require.NoError(t, a.Flush(context.Background()))
	calls, _ = rec.snapshot()
	assert.Equal(t, 1, calls)
}

func TestSaveFailureIsReported(t *testing.T) {
	boom := errors.New("disk full")
	errs := make(chan error, 1)
	a := New(SaverFunc(func(context.Context, *models.DrawingData) error {
		return boom
	}), time.Hour, WithErrorHandler(func(err error) { errs <- err }))

	a.Schedule(models.NewDrawing())
	err := a.Flush(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, a.LastError(), boom)
	assert.ErrorIs(t, <-errs, boom)
}

func TestCloseDropsLaterSchedules(t *testing.T) {
	rec := &recordingSaver{}
	a := New(rec, 10*time.Millisecond)

	a.Schedule(models.NewDrawing())
	require.NoError(t, a.Close(context.Background()))
	a.Schedule(models.NewDrawing())

	time.Sleep(40 * time.Millisecond)
	calls, _ := rec.snapshot()
	assert.Equal(t, 1, calls)
}
