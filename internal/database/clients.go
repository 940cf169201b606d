package database

import (
	"context"
	"strings"
	"time"

	"crm-backend/internal/models"
)

// ClientFilters narrows a client listing. Empty fields are ignored.
type ClientFilters struct {
	Status string // exact match
	Tag    string // substring of tags
	Query  string // substring of name, phone or notes
}

// ClientUpdate carries a partial client update; nil fields are left untouched
type ClientUpdate struct {
	Name        *string
	Phone       *string
	Status      *string
	Tags        *string
	LastContact *time.Time
	Owner       *string
	NextAction  *time.Time
	Notes       *string
	Zone        *string
}

// ListClients returns every client, newest first
func (gdb *GormDB) ListClients(ctx context.Context) ([]models.Client, error) {
	return gdb.FilterClients(ctx, ClientFilters{})
}

// FilterClients returns clients matching all non-empty filters, newest first
func (gdb *GormDB) FilterClients(ctx context.Context, f ClientFilters) ([]models.Client, error) {
	q := gdb.db.WithContext(ctx).Model(&models.Client{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Tag != "" {
		q = q.Where("tags LIKE ?", like(f.Tag))
	}
	if f.Query != "" {
		pattern := like(f.Query)
		q = q.Where("name LIKE ? OR phone LIKE ? OR notes LIKE ?", pattern, pattern, pattern)
	}

	clients := []models.Client{}
	err := q.Order("id DESC").Find(&clients).Error
	return clients, err
}

// GetClientByID retrieves a client by ID
func (gdb *GormDB) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := gdb.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientsByIDs retrieves the clients with the given IDs, newest first
func (gdb *GormDB) GetClientsByIDs(ctx context.Context, ids []uint) ([]models.Client, error) {
	clients := []models.Client{}
	if len(ids) == 0 {
		return clients, nil
	}
	err := gdb.db.WithContext(ctx).Where("id IN ?", ids).Order("id DESC").Find(&clients).Error
	return clients, err
}

// CreateClient inserts a client, defaulting its status to "nuevo"
func (gdb *GormDB) CreateClient(ctx context.Context, c *models.Client) error {
	if c.Status == "" {
		c.Status = models.ClientStatusNew
	}
	return gdb.db.WithContext(ctx).Create(c).Error
}

// UpdateClient applies the non-nil fields of u to the client
func (gdb *GormDB) UpdateClient(ctx context.Context, id uint, u ClientUpdate) (*models.Client, error) {
	client, err := gdb.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		client.Name = *u.Name
	}
	if u.Phone != nil {
		client.Phone = *u.Phone
	}
	if u.Status != nil {
		client.Status = *u.Status
	}
	if u.Tags != nil {
		client.Tags = *u.Tags
	}
	if u.LastContact != nil {
		client.LastContact = u.LastContact
	}
	if u.Owner != nil {
		client.Owner = *u.Owner
	}
	if u.NextAction != nil {
		client.NextAction = u.NextAction
	}
	if u.Notes != nil {
		client.Notes = *u.Notes
	}
	if u.Zone != nil {
		client.Zone = *u.Zone
	}

	if err := gdb.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client; gorm.ErrRecordNotFound if it does not exist
func (gdb *GormDB) DeleteClient(ctx context.Context, id uint) error {
	client, err := gdb.GetClientByID(ctx, id)
	if err != nil {
		return err
	}
	return gdb.db.WithContext(ctx).Delete(client).Error
}

// ClientPhonesByName maps trimmed client names to their phone numbers.
// When two clients share a name the lowest ID wins.
func (gdb *GormDB) ClientPhonesByName(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Name  string
		Phone string
	}
	if err := gdb.db.WithContext(ctx).Model(&models.Client{}).
		Select("name, phone").Order("id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	phones := make(map[string]string, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Name)
		if _, seen := phones[name]; name != "" && !seen {
			phones[name] = r.Phone
		}
	}
	return phones, nil
}

func like(s string) string {
	return "%" + s + "%"
}
