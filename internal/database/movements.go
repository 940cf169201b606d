package database

import (
	"context"
	"time"

	"crm-backend/internal/models"

	"gorm.io/gorm"
)

// MovementFilters narrows a movement listing. Empty fields are ignored.
type MovementFilters struct {
	Type    string     // exact match
	Contact string     // substring of contact
	Query   string     // substring of description, contact or seller
	From    *time.Time // inclusive
	To      *time.Time // exclusive
}

// ListMovements returns movements matching f, most recent first
func (gdb *GormDB) ListMovements(ctx context.Context, f MovementFilters) ([]models.Movement, error) {
	q := gdb.db.WithContext(ctx).Model(&models.Movement{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Contact != "" {
		q = q.Where("contact LIKE ?", like(f.Contact))
	}
	if f.Query != "" {
		pattern := like(f.Query)
		q = q.Where("description LIKE ? OR contact LIKE ? OR seller LIKE ?", pattern, pattern, pattern)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date < ?", *f.To)
	}

	movements := []models.Movement{}
	err := q.Order("date DESC").Order("id DESC").Find(&movements).Error
	return movements, err
}

// AllMovements returns the full movement history in insertion order
func (gdb *GormDB) AllMovements(ctx context.Context) ([]models.Movement, error) {
	movements := []models.Movement{}
	err := gdb.db.WithContext(ctx).Order("id ASC").Find(&movements).Error
	return movements, err
}

// GetMovementByID retrieves a movement by ID
func (gdb *GormDB) GetMovementByID(ctx context.Context, id uint) (*models.Movement, error) {
	var m models.Movement
	if err := gdb.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMovement inserts a movement
func (gdb *GormDB) CreateMovement(ctx context.Context, m *models.Movement) error {
	return gdb.db.WithContext(ctx).Create(m).Error
}

// CreateMovementsInTx inserts all movements in a single transaction, batchSize
// rows at a time. onBatch, when non-nil, is called after every batch with the
// number of rows it contained. Nothing is committed if any batch fails.
func (gdb *GormDB) CreateMovementsInTx(ctx context.Context, movements []models.Movement, batchSize int, onBatch func(n int)) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	return gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(movements); start += batchSize {
			end := min(start+batchSize, len(movements))
			batch := movements[start:end]
			if err := tx.Create(&batch).Error; err != nil {
				return err
			}
			if onBatch != nil {
				onBatch(len(batch))
			}
		}
		return nil
	})
}

// DeleteMovement removes a movement; gorm.ErrRecordNotFound if it does not exist
func (gdb *GormDB) DeleteMovement(ctx context.Context, id uint) error {
	m, err := gdb.GetMovementByID(ctx, id)
	if err != nil {
		return err
	}
	return gdb.db.WithContext(ctx).Delete(m).Error
}
