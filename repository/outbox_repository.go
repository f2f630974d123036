package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/outbox"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxRepository appends events inside business transactions and serves
// them to the relay. It implements outbox.Store.
type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// Record appends one pending event. Call it with the transaction that makes
// the change the event describes.
func (r *OutboxRepository) Record(tx *gorm.DB, aggregateType, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return tx.Create(&entity.OutboxEvent{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		Payload:       string(body),
		Status:        string(outbox.StatusPending),
	}).Error
}

// LockBatch claims up to batchSize pending events by moving them to
// in_progress. Concurrent relays skip rows another relay holds.
func (r *OutboxRepository) LockBatch(ctx context.Context, batchSize int) ([]outbox.Event, error) {
	var rows []entity.OutboxEvent
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", outbox.StatusPending).
			Order("id").
			Limit(batchSize).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uint64, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		return tx.Model(&entity.OutboxEvent{}).
			Where("id IN ?", ids).
			Update("status", outbox.StatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}

	events := make([]outbox.Event, len(rows))
	for i, row := range rows {
		events[i] = outbox.Event{
			ID:            row.ID,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			Type:          row.Type,
			Payload:       []byte(row.Payload),
			CreatedAt:     row.CreatedAt,
		}
	}
	return events, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, ids []uint64) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&entity.OutboxEvent{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": outbox.StatusSent, "sent_at": &now}).Error
}

// MarkFailed returns the event to pending until it has failed MaxRetries
// times, then parks it as failed.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entity.OutboxEvent
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		retries := row.RetryCount + 1
		status := outbox.StatusPending
		if retries >= outbox.MaxRetries {
			status = outbox.StatusFailed
		}
		return tx.Model(&row).Updates(map[string]any{
			"status":      status,
			"retry_count": retries,
			"last_error":  errMsg,
		}).Error
	})
}
