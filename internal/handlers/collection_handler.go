package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medialedger/backend/internal/config"
	"github.com/medialedger/backend/internal/models"
	"github.com/medialedger/backend/internal/services"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
	cfg               *config.Config
}

func NewCollectionHandler(collectionService *services.CollectionService, cfg *config.Config) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		cfg:               cfg,
	}
}

// GetAll handles GET /collections
func (h *CollectionHandler) GetAll(c *gin.Context) {
	collections, err := h.collectionService.List(c.Request.Context())
	if err != nil {
		log.Printf("Failed to fetch collections: %v", err)
		c.JSON(http.StatusInternalServerError, []models.Collection{})
		return
	}
	c.JSON(http.StatusOK, collections)
}

// Create handles POST /collections (multipart: name, description?, image?)
func (h *CollectionHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "add collection")
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// Get handles GET /collections/:id, returning the collection with its items
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.collectionService.GetWithItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "fetch collection")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /collections/:id
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	if err := h.collectionService.Update(c.Request.Context(), id, in); err != nil {
		respondError(c, err, "update collection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection updated"})
}

// Delete handles DELETE /collections/:id
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete collection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted"})
}

func (h *CollectionHandler) bindInput(c *gin.Context) (services.CollectionInput, bool) {
	in := services.CollectionInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	data, name, ok := readImageFile(c, h.cfg.UploadMaxImageSize)
	if !ok {
		return in, false
	}
	in.Image = data
	in.ImageName = name
	return in, true
}

// readImageFile reads the optional "image" multipart field. A missing field
// is fine; an unreadable or oversized file answers the request itself.
func readImageFile(c *gin.Context, maxSize int64) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return nil, "", true
	}
	defer file.Close()

	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image too large (max %d bytes)", maxSize)})
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return nil, "", false
	}
	return data, header.Filename, true
}
