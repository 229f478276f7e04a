package handler

import (
	"time"

	syncapp "github.com/DiVotek/smart-cms-products-import/internal/application/sync"
	syncdomain "github.com/DiVotek/smart-cms-products-import/internal/domain/sync"
	"github.com/gin-gonic/gin"
)

// TemplateHandler handles import/export template endpoints
type TemplateHandler struct {
	BaseHandler
	templates *syncapp.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templates *syncapp.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// CreateTemplateRequest represents the request to create a template
type CreateTemplateRequest struct {
	Name   string   `json:"name" binding:"required"`
	Fields []string `json:"fields" binding:"required,min=1"`
}

// UpdateTemplateRequest represents the request to replace a template's fields
type UpdateTemplateRequest struct {
	Fields []string `json:"fields" binding:"required,min=1"`
}

// TemplateResponse represents a template in responses
type TemplateResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Fields        []string  `json:"fields"`
	SpreadsheetID string    `json:"spreadsheet_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toTemplateResponse(t *syncdomain.Template) TemplateResponse {
	return TemplateResponse{
		ID:            t.ID,
		Name:          t.Name,
		Fields:        t.Fields,
		SpreadsheetID: t.SpreadsheetID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// List returns all templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, toTemplateResponse(&templates[i]))
	}
	h.Success(c, responses)
}

// GetByID returns a template by id
func (h *TemplateHandler) GetByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTemplateResponse(template))
}

// Create creates a new template
func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	template, err := h.templates.Create(c.Request.Context(), req.Name, req.Fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTemplateResponse(template))
}

// Update replaces a template's field list
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	template, err := h.templates.UpdateFields(c.Request.Context(), id, req.Fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTemplateResponse(template))
}

// Delete removes a template
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the template routes
func (h *TemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/templates")
	{
		templates.GET("", h.List)
		templates.POST("", h.Create)
		templates.GET("/:id", h.GetByID)
		templates.PUT("/:id", h.Update)
		templates.DELETE("/:id", h.Delete)
	}
}
