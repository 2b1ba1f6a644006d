package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medialedger/backend/internal/models"
	"github.com/medialedger/backend/internal/services"
)

// LookupHandler serves one of the simple name lookup resources. The same
// handler type backs /platforms, /media-types and /tags; only the table and
// the label used in messages differ.
type LookupHandler struct {
	lookupService *services.LookupService
	table         string
	label         string
}

func NewLookupHandler(lookupService *services.LookupService, table, label string) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		table:         table,
		label:         label,
	}
}

// List handles GET. A store failure degrades to an empty list with a 500.
func (h *LookupHandler) List(c *gin.Context) {
	rows, err := h.lookupService.List(c.Request.Context(), h.table)
	if err != nil {
		log.Printf("Failed to fetch %s: %v", h.table, err)
		c.JSON(http.StatusInternalServerError, []models.LookupRow{})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create handles POST with a JSON body {"name": "..."}
func (h *LookupHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	row, err := h.lookupService.Create(c.Request.Context(), h.table, req.Name)
	if err != nil {
		respondError(c, err, "add "+h.label)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// Delete handles DELETE /:id. Deleting an unknown id still answers success.
func (h *LookupHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.lookupService.Delete(c.Request.Context(), h.table, id); err != nil {
		respondError(c, err, "delete "+h.label)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " deleted"})
}
