package models

import "time"

// Client is a CRM contact card managed through the /clientes endpoints
type Client struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string     `gorm:"type:varchar(50);not null;index" json:"phone"`
	Status      string     `gorm:"type:varchar(50);not null" json:"status"`
	Tags        string     `gorm:"type:varchar(255)" json:"tags"`
	LastContact *time.Time `json:"last_contact"`
	Owner       string     `gorm:"type:varchar(255)" json:"owner"`
	NextAction  *time.Time `json:"next_action"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Zone        string     `gorm:"type:varchar(255)" json:"zone"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Client) TableName() string {
	return "clients"
}

// ClientStatusNew is assigned when a client is created without a status
const ClientStatusNew = "nuevo"
