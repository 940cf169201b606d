package search

import (
	"fmt"
	"strings"

	"crm-backend/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// SearchClient keeps a Meilisearch index of clients for free-text lookup
type SearchClient struct {
	client *meilisearch.Client
	index  string
}

// NewSearchClient creates a client for the given host and index uid
func NewSearchClient(host, apiKey, index string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	if index == "" {
		index = "clients"
	}

	return &SearchClient{
		client: client,
		index:  index,
	}
}

// InitIndex creates the index and configures its attributes
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"phone",
		"notes",
		"tags",
		"zone",
		"owner",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"status",
		"tag_list",
		"zone",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"id",
	})
	return err
}

// IndexClient adds or replaces a single client document
func (s *SearchClient) IndexClient(client *models.Client) error {
	_, err := s.client.Index(s.index).AddDocuments([]map[string]interface{}{clientDocument(client)}, "id")
	return err
}

// IndexClients adds or replaces many client documents
func (s *SearchClient) IndexClients(clients []models.Client) error {
	if len(clients) == 0 {
		return nil
	}
	docs := make([]map[string]interface{}, 0, len(clients))
	for i := range clients {
		docs = append(docs, clientDocument(&clients[i]))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs, "id")
	return err
}

// DeleteClient removes a client document
func (s *SearchClient) DeleteClient(id uint) error {
	_, err := s.client.Index(s.index).DeleteDocument(fmt.Sprintf("%d", id))
	return err
}

// SearchClientIDs returns the ids of matching clients in relevance order
func (s *SearchClient) SearchClientIDs(params FilterParams) ([]uint, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	req := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	}
	if filter := BuildFilter(params); filter != "" {
		req.Filter = filter
	}

	res, err := s.client.Index(s.index).Search(params.Query, req)
	if err != nil {
		return nil, err
	}
	return idsFromHits(res.Hits), nil
}

func clientDocument(c *models.Client) map[string]interface{} {
	return map[string]interface{}{
		"id":       c.ID,
		"name":     c.Name,
		"phone":    c.Phone,
		"status":   c.Status,
		"tags":     c.Tags,
		"tag_list": splitTags(c.Tags),
		"notes":    c.Notes,
		"zone":     c.Zone,
		"owner":    c.Owner,
	}
}

func splitTags(tags string) []string {
	list := []string{}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

func idsFromHits(hits []interface{}) []uint {
	ids := make([]uint, 0, len(hits))
	for _, hit := range hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := hitMap["id"].(float64); ok && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}
