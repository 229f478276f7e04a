package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	syncapp "github.com/DiVotek/smart-cms-products-import/internal/application/sync"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
	"github.com/DiVotek/smart-cms-products-import/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BlobUploader stores uploaded import files for later processing
type BlobUploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

// SyncHandler handles catalog import and export endpoints
type SyncHandler struct {
	BaseHandler
	service   *syncapp.Service
	templates *syncapp.TemplateService
	uploads   BlobUploader
	maxUpload int64
}

// NewSyncHandler creates a new SyncHandler. uploads may be nil when
// blob storage is not configured.
func NewSyncHandler(service *syncapp.Service, templates *syncapp.TemplateService, uploads BlobUploader, maxUpload int64) *SyncHandler {
	return &SyncHandler{
		service:   service,
		templates: templates,
		uploads:   uploads,
		maxUpload: maxUpload,
	}
}

// ImportBlobRequest represents the request to import a stored file
type ImportBlobRequest struct {
	Name string `json:"name" binding:"required"`
}

// UploadResponse represents the response after storing an import file
type UploadResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SheetExportResponse represents the response after a spreadsheet export
type SheetExportResponse struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}

// ExportCSV streams the template's products as a CSV download
func (h *SyncHandler) ExportCSV(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	categoryID, err := parseCategoryID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", sanitizeFilename(template.Name), time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.service.ExportCSV(c.Request.Context(), id, categoryID, c.Writer); err != nil {
		// Headers are already sent, the download is simply cut short
		c.Abort()
		return
	}
}

// ImportCSV reconciles an uploaded CSV file against the catalog
func (h *SyncHandler) ImportCSV(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if h.maxUpload > 0 && header.Size > h.maxUpload {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum allowed size")
		return
	}
	if !acceptableContentType(header.Header.Get("Content-Type")) {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	result, err := h.service.ImportCSV(c.Request.Context(), id, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	h.Success(c, result)
}

// Upload stores an import file in blob storage and returns its name
func (h *SyncHandler) Upload(c *gin.Context) {
	if h.uploads == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeNotConfigured, "Blob storage is not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if h.maxUpload > 0 && header.Size > h.maxUpload {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum allowed size")
		return
	}
	if !acceptableContentType(header.Header.Get("Content-Type")) {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	name := uuid.NewString() + ".csv"
	if err := h.uploads.Upload(c.Request.Context(), name, data, "text/csv"); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, UploadResponse{Name: name, Size: int64(len(data))})
}

// ImportBlob reconciles a previously uploaded file against the catalog
func (h *SyncHandler) ImportBlob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ImportBlobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.service.ImportBlob(c.Request.Context(), id, req.Name)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportSheet writes the template's products to its linked spreadsheet
func (h *SyncHandler) ExportSheet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	categoryID, err := parseCategoryID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	spreadsheetID, err := h.service.ExportToSheet(c.Request.Context(), id, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SheetExportResponse{SpreadsheetID: spreadsheetID})
}

// ImportSheet reconciles the template's linked spreadsheet against the catalog
func (h *SyncHandler) ImportSheet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ImportFromSheet(c.Request.Context(), id)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	h.Success(c, result)
}

// handleImportError maps file-level parse failures to bad requests and
// defers to the common error handling otherwise
func (h *SyncHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tabular.ErrEmptyFile):
		h.BadRequest(c, "file is empty")
	case errors.Is(err, tabular.ErrInvalidEncoding):
		h.BadRequest(c, "file has invalid encoding, must be UTF-8")
	case errors.Is(err, tabular.ErrMissingHeader):
		h.BadRequest(c, "file is missing the header row")
	default:
		h.HandleError(c, err)
	}
}

// parseCategoryID parses the optional category_id query parameter
func parseCategoryID(c *gin.Context) (*uint, error) {
	raw := c.Query("category_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, errors.New("category_id must be a positive integer")
	}
	categoryID := uint(id)
	return &categoryID, nil
}

// acceptableContentType reports whether the multipart part looks like CSV.
// Browsers are inconsistent here, so a few generic types are tolerated.
func acceptableContentType(contentType string) bool {
	switch contentType {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
		return true
	}
	return false
}

// sanitizeFilename keeps the template name safe for a download filename
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}

// RegisterRoutes registers the import/export routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports/upload", h.Upload)

	templates := rg.Group("/templates/:id")
	{
		templates.GET("/export/csv", h.ExportCSV)
		templates.POST("/export/sheet", h.ExportSheet)
		templates.POST("/import/csv", h.ImportCSV)
		templates.POST("/import/blob", h.ImportBlob)
		templates.POST("/import/sheet", h.ImportSheet)
	}
}
