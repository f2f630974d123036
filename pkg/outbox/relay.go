package outbox

import (
	"context"
	"log/slog"
	"time"
)

type Store interface {
	LockBatch(ctx context.Context, batchSize int) ([]Event, error)
	MarkSent(ctx context.Context, ids []uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
}

// Relay moves committed events from the store to the dispatcher.
type Relay struct {
	log       *slog.Logger
	store     Store
	dispatch  *Dispatcher
	batchSize int
	interval  time.Duration
}

func NewRelay(log *slog.Logger, store Store, dispatch *Dispatcher) *Relay {
	return &Relay{
		log:       log,
		store:     store,
		dispatch:  dispatch,
		batchSize: 100,
		interval:  500 * time.Millisecond,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping")
			return nil
		case <-t.C:
			if _, err := r.Flush(ctx); err != nil {
				r.log.Error("relay flush error", "err", err)
			}
		}
	}
}

// Flush dispatches one batch and returns how many events were sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	events, err := r.store.LockBatch(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		if err := r.dispatch.Dispatch(ctx, e); err != nil {
			if mErr := r.store.MarkFailed(ctx, e.ID, err.Error()); mErr != nil {
				r.log.Error("relay mark failed error", "event_id", e.ID, "err", mErr)
			}
			continue
		}
		ids = append(ids, e.ID)
	}
	if len(ids) > 0 {
		if err := r.store.MarkSent(ctx, ids); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
