package handlers

import (
	"log"
	"net/http"
	"strconv"

	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/search"

	"github.com/gin-gonic/gin"
)

const clientNotFound = "Cliente no encontrado"

// ClientIndex is the optional full-text index kept in sync with client writes
type ClientIndex interface {
	IndexClient(client *models.Client) error
	DeleteClient(id uint) error
	SearchClientIDs(params search.FilterParams) ([]uint, error)
}

// ClientHandler serves /clientes
type ClientHandler struct {
	db    *database.GormDB
	index ClientIndex
}

// NewClientHandler creates a client handler. index may be nil.
func NewClientHandler(db *database.GormDB, index ClientIndex) *ClientHandler {
	return &ClientHandler{db: db, index: index}
}

type clientCreateRequest struct {
	Name        string    `json:"name" binding:"required"`
	Phone       string    `json:"phone" binding:"required"`
	Status      string    `json:"status"`
	Tags        string    `json:"tags"`
	LastContact *flexTime `json:"last_contact"`
	Owner       string    `json:"owner"`
	NextAction  *flexTime `json:"next_action"`
	Notes       string    `json:"notes"`
	Zone        string    `json:"zone"`
}

type clientUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1"`
	Phone       *string   `json:"phone" binding:"omitempty,min=1"`
	Status      *string   `json:"status"`
	Tags        *string   `json:"tags"`
	LastContact *flexTime `json:"last_contact"`
	Owner       *string   `json:"owner"`
	NextAction  *flexTime `json:"next_action"`
	Notes       *string   `json:"notes"`
	Zone        *string   `json:"zone"`
}

// List returns every client, newest first
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.db.ListClients(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Filter handles GET /clientes/filtrar?estado=&tag=&q=
func (h *ClientHandler) Filter(c *gin.Context) {
	clients, err := h.db.FilterClients(c.Request.Context(), database.ClientFilters{
		Status: c.Query("estado"),
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
	})
	if err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Search handles GET /clientes/buscar. It uses the search index when one is
// configured and falls back to the SQL filter otherwise.
func (h *ClientHandler) Search(c *gin.Context) {
	params := search.FilterParams{
		Query:  c.Query("q"),
		Status: c.Query("estado"),
		Tag:    c.Query("tag"),
		Zone:   c.Query("zona"),
	}
	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && limit > 0 {
		params.Limit = limit
	}

	if h.index != nil {
		ids, err := h.index.SearchClientIDs(params)
		if err == nil {
			clients, err := h.db.GetClientsByIDs(c.Request.Context(), ids)
			if err != nil {
				respondStoreError(c, err, clientNotFound)
				return
			}
			c.JSON(http.StatusOK, orderByIDs(clients, ids))
			return
		}
		log.Printf("[search] query %q failed, falling back to database: %v", params.Query, err)
	}

	h.Filter(c)
}

// Get returns one client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := h.db.GetClientByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Create inserts a client
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	client := &models.Client{
		Name:        req.Name,
		Phone:       req.Phone,
		Status:      req.Status,
		Tags:        req.Tags,
		LastContact: req.LastContact.ptr(),
		Owner:       req.Owner,
		NextAction:  req.NextAction.ptr(),
		Notes:       req.Notes,
		Zone:        req.Zone,
	}
	if err := h.db.CreateClient(c.Request.Context(), client); err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}

	h.reindex(client)
	c.JSON(http.StatusOK, client)
}

// Update applies only the fields present in the body
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req clientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	client, err := h.db.UpdateClient(c.Request.Context(), id, database.ClientUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Status:      req.Status,
		Tags:        req.Tags,
		LastContact: req.LastContact.ptr(),
		Owner:       req.Owner,
		NextAction:  req.NextAction.ptr(),
		Notes:       req.Notes,
		Zone:        req.Zone,
	})
	if err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}

	h.reindex(client)
	c.JSON(http.StatusOK, client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteClient(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, clientNotFound)
		return
	}

	if h.index != nil {
		if err := h.index.DeleteClient(id); err != nil {
			log.Printf("[search] failed to remove client %d from index: %v", id, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ClientHandler) reindex(client *models.Client) {
	if h.index == nil {
		return
	}
	if err := h.index.IndexClient(client); err != nil {
		log.Printf("[search] failed to index client %d: %v", client.ID, err)
	}
}

// orderByIDs returns clients in the order of ids, dropping ids with no row
func orderByIDs(clients []models.Client, ids []uint) []models.Client {
	byID := make(map[uint]models.Client, len(clients))
	for _, cl := range clients {
		byID[cl.ID] = cl
	}
	ordered := make([]models.Client, 0, len(ids))
	for _, id := range ids {
		if cl, ok := byID[id]; ok {
			ordered = append(ordered, cl)
		}
	}
	return ordered
}
