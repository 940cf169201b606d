package models

import (
	"time"

	"gorm.io/datatypes"
)

// Broadcast is an outbound WhatsApp message addressed to a list of phone numbers
type Broadcast struct {
	ID            uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	Message       string                      `gorm:"type:text" json:"message"`
	ImageURL      *string                     `gorm:"type:varchar(500)" json:"image_url"`
	Recipients    datatypes.JSONSlice[string] `gorm:"column:recipients_json" json:"recipients"`
	ScheduledTime *time.Time                  `json:"scheduled_time"`
	Status        BroadcastStatus             `gorm:"type:varchar(50);not null;index" json:"status"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Broadcast) TableName() string {
	return "broadcasts"
}

// BroadcastStatus is the lifecycle state of a broadcast
type BroadcastStatus string

const (
	BroadcastStatusDraft     BroadcastStatus = "draft"
	BroadcastStatusScheduled BroadcastStatus = "scheduled"
	BroadcastStatusSent      BroadcastStatus = "sent"
	BroadcastStatusFailed    BroadcastStatus = "failed"
)

// Valid reports whether s is one of the known statuses
func (s BroadcastStatus) Valid() bool {
	switch s {
	case BroadcastStatusDraft, BroadcastStatusScheduled, BroadcastStatusSent, BroadcastStatusFailed:
		return true
	}
	return false
}
