package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/medialedger/backend/internal/config"
	"github.com/medialedger/backend/internal/services"
)

type ItemHandler struct {
	itemService *services.ItemService
	cfg         *config.Config
}

func NewItemHandler(itemService *services.ItemService, cfg *config.Config) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		cfg:         cfg,
	}
}

// GetAll handles GET /items, returning every item with lookup names and
// full tag/collection sets
func (h *ItemHandler) GetAll(c *gin.Context) {
	items, err := h.itemService.List(c.Request.Context())
	if err != nil {
		log.Printf("Failed to fetch items: %v", err)
		c.JSON(http.StatusInternalServerError, []services.ItemView{})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /items (multipart: title, type, platform_id?,
// media_type_id?, collection_ids, tag_ids, image?)
func (h *ItemHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "create item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetWithRelations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "fetch item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update handles PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (h *ItemHandler) bindInput(c *gin.Context) (services.ItemInput, bool) {
	in := services.ItemInput{
		Title: c.PostForm("title"),
		Type:  c.PostForm("type"),
	}

	var ok bool
	if in.PlatformID, ok = parseOptionalID(c, "platform_id"); !ok {
		return in, false
	}
	if in.MediaTypeID, ok = parseOptionalID(c, "media_type_id"); !ok {
		return in, false
	}
	if in.CollectionIDs, ok = parseIDList(c, "collection_ids"); !ok {
		return in, false
	}
	if in.TagIDs, ok = parseIDList(c, "tag_ids"); !ok {
		return in, false
	}

	data, name, ok := readImageFile(c, h.cfg.UploadMaxImageSize)
	if !ok {
		return in, false
	}
	in.Image = data
	in.ImageName = name
	return in, true
}

// parseOptionalID reads a nullable reference field from the form
func parseOptionalID(c *gin.Context, field string) (*uint, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" || raw == "null" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be an id"})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// parseIDList reads a form field holding a JSON array of ids, e.g. "[1,2]".
// The field defaults to an empty list when absent.
func parseIDList(c *gin.Context, field string) ([]uint, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return []uint{}, true
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be a JSON array of ids"})
		return nil, false
	}
	return ids, true
}
