package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/models"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/store"
	"go.uber.org/atomic"
)

// VisitRecorder persists visit records on detached goroutines. Writes
// are fire-and-forget: a failure is logged and counted, never surfaced
// to the request that produced the record.
type VisitRecorder struct {
	store   store.VisitStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	wg      sync.WaitGroup
	closed  atomic.Bool
}

func NewVisitRecorder(visitStore store.VisitStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *VisitRecorder {
	return &VisitRecorder{
		store:   visitStore,
		logger:  logger,
		metrics: metrics,
	}
}

// Record schedules the insert and returns immediately. Records arriving
// after Close are dropped and counted.
func (vr *VisitRecorder) Record(rec *models.VisitRecord) {
	if vr.closed.Load() {
		vr.metrics.IncVisitsDropped()
		return
	}

	vr.wg.Add(1)
	go func() {
		defer vr.wg.Done()

		// Detached from the request lifecycle on purpose: the write uses
		// its own context so the response completing (or the connection
		// dropping) does not cancel it.
		start := time.Now()
		if err := vr.store.Insert(context.Background(), rec); err != nil {
			vr.logger.Errorf(providers.TypeTrack, "Error saving visit record: %s", err)
			vr.metrics.IncVisitRecordFailures()
			return
		}
		vr.metrics.ObserveInsertDuration(time.Since(start))
		vr.metrics.IncVisitsRecorded()
	}()
}

// Close stops accepting records and waits up to timeout for in-flight
// writes to land.
func (vr *VisitRecorder) Close(timeout time.Duration) error {
	vr.closed.Store(true)

	done := make(chan struct{})
	go func() {
		vr.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("visit recorder: flush timed out after %s", timeout)
	}
}
