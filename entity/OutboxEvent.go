package entity

import "time"

// OutboxEvent is written in the same transaction as the order change it
// describes and later published by the relay.
type OutboxEvent struct {
	ID            uint64    `gorm:"primaryKey"`
	AggregateType string    `gorm:"size:64;not null"`
	AggregateID   string    `gorm:"size:64;index;not null"`
	Type          string    `gorm:"size:64;not null"`
	Payload       string    `gorm:"type:text;not null"`
	Status        string    `gorm:"size:16;index;not null"`
	RetryCount    int       `gorm:"not null"`
	LastError     *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"index"`
	SentAt        *time.Time
}

func (OutboxEvent) TableName() string { return "outbox" }
