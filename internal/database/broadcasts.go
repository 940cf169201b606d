package database

import (
	"context"
	"time"

	"crm-backend/internal/models"
)

// ListBroadcasts returns every broadcast, newest first
func (gdb *GormDB) ListBroadcasts(ctx context.Context) ([]models.Broadcast, error) {
	broadcasts := []models.Broadcast{}
	err := gdb.db.WithContext(ctx).Order("id DESC").Find(&broadcasts).Error
	return broadcasts, err
}

// GetBroadcastByID retrieves a broadcast by ID
func (gdb *GormDB) GetBroadcastByID(ctx context.Context, id uint) (*models.Broadcast, error) {
	var b models.Broadcast
	if err := gdb.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBroadcast inserts a broadcast as a draft
func (gdb *GormDB) CreateBroadcast(ctx context.Context, b *models.Broadcast) error {
	b.Status = models.BroadcastStatusDraft
	if b.Recipients == nil {
		b.Recipients = []string{}
	}
	return gdb.db.WithContext(ctx).Create(b).Error
}

// SaveBroadcast writes every field of b
func (gdb *GormDB) SaveBroadcast(ctx context.Context, b *models.Broadcast) error {
	if b.Recipients == nil {
		b.Recipients = []string{}
	}
	return gdb.db.WithContext(ctx).Save(b).Error
}

// ScheduleBroadcast sets the send time and marks the broadcast as scheduled
func (gdb *GormDB) ScheduleBroadcast(ctx context.Context, id uint, when time.Time) (*models.Broadcast, error) {
	b, err := gdb.GetBroadcastByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.ScheduledTime = &when
	b.Status = models.BroadcastStatusScheduled
	if err := gdb.SaveBroadcast(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBroadcast removes a broadcast; gorm.ErrRecordNotFound if it does not exist
func (gdb *GormDB) DeleteBroadcast(ctx context.Context, id uint) error {
	b, err := gdb.GetBroadcastByID(ctx, id)
	if err != nil {
		return err
	}
	return gdb.db.WithContext(ctx).Delete(b).Error
}
