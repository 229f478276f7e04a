package syncapp

import (
	"context"
	"fmt"
	"io"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	syncdomain "github.com/DiVotek/smart-cms-products-import/internal/domain/sync"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
	"go.uber.org/zap"
)

const (
	// exportPageSize is the number of products loaded per page while streaming an export
	exportPageSize = 500
	// maxReportedErrors caps the row errors carried in a result
	maxReportedErrors = 100
)

// SheetGateway is the spreadsheet side of the synchronization.
// Implemented against Google Sheets in infrastructure/sheets.
type SheetGateway interface {
	// EnsureSpreadsheet returns existingID when it is usable, otherwise
	// creates a spreadsheet with the given title and returns its id
	EnsureSpreadsheet(ctx context.Context, title, existingID string) (string, error)

	// Replace clears the sheet and writes the grid
	Replace(ctx context.Context, spreadsheetID string, grid [][]string) error

	// Read returns the sheet's populated cells as a grid
	Read(ctx context.Context, spreadsheetID string) ([][]string, error)

	// Share grants the given emails write access
	Share(ctx context.Context, spreadsheetID string, emails []string) error
}

// BlobStore fetches previously uploaded import files by name
type BlobStore interface {
	Download(ctx context.Context, name string) (io.ReadCloser, error)
}

// Result summarizes one import run
type Result struct {
	Total       int                 `json:"total"`
	Created     int                 `json:"created"`
	Updated     int                 `json:"updated"`
	Unchanged   int                 `json:"unchanged"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	Errors      []tabular.RowError  `json:"errors,omitempty"`
	TotalErrors int                 `json:"total_errors,omitempty"`
	IsTruncated bool                `json:"is_truncated,omitempty"`
}

// Service orchestrates template-driven imports and exports over CSV,
// blob storage and spreadsheets.
type Service struct {
	templates  syncdomain.TemplateRepository
	products   catalog.ProductRepository
	languages  catalog.LanguageRepository
	reconciler *Reconciler
	registry   *Registry
	codec      *Codec
	sheets     SheetGateway
	blobs      BlobStore
	admins     []string
	logger     *zap.Logger
}

// NewService creates the synchronization service. sheets and blobs may
// be nil when the corresponding transport is not configured; the
// operations needing them fail with a domain error. admins are granted
// write access to exported spreadsheets.
func NewService(
	templates syncdomain.TemplateRepository,
	products catalog.ProductRepository,
	languages catalog.LanguageRepository,
	reconciler *Reconciler,
	registry *Registry,
	sheets SheetGateway,
	blobs BlobStore,
	admins []string,
	logger *zap.Logger,
) *Service {
	return &Service{
		templates:  templates,
		products:   products,
		languages:  languages,
		reconciler: reconciler,
		registry:   registry,
		codec:      NewCodec(registry),
		sheets:     sheets,
		blobs:      blobs,
		admins:     admins,
		logger:     logger,
	}
}

// ExportCSV streams the products of a template, optionally scoped to a
// category, as delimited text.
func (s *Service) ExportCSV(ctx context.Context, templateID uint, categoryID *uint, w io.Writer) error {
	template, fields, ec, err := s.prepare(ctx, templateID)
	if err != nil {
		return err
	}

	writer, err := tabular.NewWriter(w, fields)
	if err != nil {
		return err
	}
	count, err := s.streamProducts(ctx, categoryID, func(p *catalog.Product) error {
		return writer.WriteRow(s.codec.Encode(ec, p, fields))
	})
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	s.logger.Info("catalog exported",
		zap.String("template", template.Name),
		zap.Int("products", count))
	return nil
}

// ImportCSV reconciles delimited text against the catalog. Row
// failures are collected in the result; only setup failures return an
// error.
func (s *Service) ImportCSV(ctx context.Context, templateID uint, r io.Reader) (*Result, error) {
	template, _, ec, err := s.prepare(ctx, templateID)
	if err != nil {
		return nil, err
	}

	reader, err := tabular.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := reader.ReadHeader(); err != nil {
		return nil, err
	}
	rows, err := reader.ReadAllRows()
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, template, rows, ec.Languages)
}

// ImportBlob reconciles a previously uploaded file fetched by name
// from the blob store.
func (s *Service) ImportBlob(ctx context.Context, templateID uint, name string) (*Result, error) {
	if s.blobs == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Blob storage is not configured")
	}
	blob, err := s.blobs.Download(ctx, name)
	if err != nil {
		return nil, shared.NewDomainError("BLOB_NOT_FOUND", fmt.Sprintf("Import file '%s' is not available", name))
	}
	defer blob.Close()
	return s.ImportCSV(ctx, templateID, blob)
}

// ExportToSheet writes the template's products into its spreadsheet,
// creating and sharing one on first use, and returns the spreadsheet id.
func (s *Service) ExportToSheet(ctx context.Context, templateID uint, categoryID *uint) (string, error) {
	if s.sheets == nil {
		return "", shared.NewDomainError("SHEETS_DISABLED", "Spreadsheet synchronization is not configured")
	}
	template, fields, ec, err := s.prepare(ctx, templateID)
	if err != nil {
		return "", err
	}

	spreadsheetID, err := s.sheets.EnsureSpreadsheet(ctx, template.Name, template.SpreadsheetID)
	if err != nil {
		return "", err
	}
	if spreadsheetID != template.SpreadsheetID {
		template.LinkSpreadsheet(spreadsheetID)
		if err := s.templates.Save(ctx, template); err != nil {
			return "", err
		}
		if len(s.admins) > 0 {
			if err := s.sheets.Share(ctx, spreadsheetID, s.admins); err != nil {
				return "", err
			}
		}
	}

	var rows []*tabular.Row
	if _, err := s.streamProducts(ctx, categoryID, func(p *catalog.Product) error {
		rows = append(rows, s.codec.Encode(ec, p, fields))
		return nil
	}); err != nil {
		return "", err
	}
	if err := s.sheets.Replace(ctx, spreadsheetID, tabular.RowsToGrid(rows, fields)); err != nil {
		return "", err
	}

	s.logger.Info("catalog exported to spreadsheet",
		zap.String("template", template.Name),
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("products", len(rows)))
	return spreadsheetID, nil
}

// ImportFromSheet reconciles the template's linked spreadsheet against
// the catalog.
func (s *Service) ImportFromSheet(ctx context.Context, templateID uint) (*Result, error) {
	if s.sheets == nil {
		return nil, shared.NewDomainError("SHEETS_DISABLED", "Spreadsheet synchronization is not configured")
	}
	template, _, ec, err := s.prepare(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.HasSpreadsheet() {
		return nil, shared.NewDomainError("SHEET_NOT_LINKED", "Template has no linked spreadsheet")
	}

	grid, err := s.sheets.Read(ctx, template.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	rows, err := tabular.GridToRows(grid)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, template, rows, ec.Languages)
}

// prepare loads the template, derives the effective field list and
// builds the encode context from the active languages.
func (s *Service) prepare(ctx context.Context, templateID uint) (*syncdomain.Template, []string, *EncodeContext, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, nil, nil, err
	}
	languages, err := s.activeLanguages(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return template, EffectiveFields(template.Fields), &EncodeContext{Languages: languages}, nil
}

// activeLanguages indexes the active languages by slug
func (s *Service) activeLanguages(ctx context.Context) (map[string]catalog.Language, error) {
	active, err := s.languages.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	languages := make(map[string]catalog.Language, len(active))
	for _, l := range active {
		languages[l.Slug] = l
	}
	return languages, nil
}

// streamProducts pages through the catalog in id order, optionally
// scoped to a category, and feeds each product to fn.
func (s *Service) streamProducts(ctx context.Context, categoryID *uint, fn func(*catalog.Product) error) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = exportPageSize
	filter.OrderBy = "id"
	filter.OrderDir = "asc"
	if categoryID != nil {
		filter.Filters["category_id"] = *categoryID
	}

	count := 0
	for page := 1; ; page++ {
		filter.Page = page
		products, err := s.products.FindPage(ctx, filter)
		if err != nil {
			return count, err
		}
		for i := range products {
			if err := fn(&products[i]); err != nil {
				return count, err
			}
			count++
		}
		if len(products) < exportPageSize {
			return count, nil
		}
	}
}

// reconcile runs the rows through the reconciler, isolating failures
// per row.
func (s *Service) reconcile(ctx context.Context, template *syncdomain.Template, rows []*tabular.Row, languages map[string]catalog.Language) (*Result, error) {
	collection := tabular.NewErrorCollection(maxReportedErrors)
	result := &Result{}

	for _, row := range rows {
		result.Total++
		outcome, rowErrs := s.reconciler.Apply(ctx, row, languages)
		if len(rowErrs) > 0 {
			result.Failed++
			for _, e := range rowErrs {
				collection.Add(e)
				s.logger.Warn("row failed",
					zap.String("template", template.Name),
					zap.Int("row", e.Row),
					zap.String("field", e.Field),
					zap.String("code", e.Code),
					zap.String("message", e.Message))
			}
			continue
		}
		switch outcome.Action {
		case ActionCreated:
			result.Created++
		case ActionUpdated:
			result.Updated++
		case ActionUnchanged:
			result.Unchanged++
		}
	}

	result.Succeeded = result.Created + result.Updated + result.Unchanged
	result.Errors = collection.Errors()
	result.TotalErrors = collection.TotalCount()
	result.IsTruncated = collection.IsTruncated()

	s.logger.Info("import finished",
		zap.String("template", template.Name),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("failed", result.Failed))
	return result, nil
}
