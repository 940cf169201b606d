package search

import (
	"fmt"
	"strings"
)

// FilterParams narrows a free-text client search
type FilterParams struct {
	Query  string
	Status string
	Tag    string
	Zone   string
	Limit  int64
}

// BuildFilter converts the params into a Meilisearch filter expression
func BuildFilter(params FilterParams) string {
	var filters []string

	if params.Status != "" {
		filters = append(filters, fmt.Sprintf("status = '%s'", quote(params.Status)))
	}
	if params.Tag != "" {
		filters = append(filters, fmt.Sprintf("tag_list = '%s'", quote(strings.TrimSpace(params.Tag))))
	}
	if params.Zone != "" {
		filters = append(filters, fmt.Sprintf("zone = '%s'", quote(params.Zone)))
	}

	return strings.Join(filters, " AND ")
}

func quote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
