package models

import "time"

// Movement is one financial event (sale, expense, ...) tied to a free-text contact
type Movement struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	Type            string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Seller          *string   `gorm:"type:varchar(255)" json:"seller"`
	Description     string    `gorm:"type:text" json:"description"`
	ExpenseCategory string    `gorm:"type:varchar(255)" json:"expense_category"`
	Contact         string    `gorm:"type:varchar(255);not null;index" json:"contact"`
	Status          string    `gorm:"type:varchar(50)" json:"status"`
	PaymentMethod   string    `gorm:"type:varchar(50)" json:"payment_method"`
	Value           float64   `gorm:"not null" json:"value"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Movement) TableName() string {
	return "movements"
}
