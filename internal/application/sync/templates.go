package syncapp

import (
	"context"

	syncdomain "github.com/DiVotek/smart-cms-products-import/internal/domain/sync"
	"go.uber.org/zap"
)

// TemplateService manages the import/export templates
type TemplateService struct {
	templates syncdomain.TemplateRepository
	logger    *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates syncdomain.TemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		logger:    logger,
	}
}

// List returns all templates
func (s *TemplateService) List(ctx context.Context) ([]syncdomain.Template, error) {
	return s.templates.FindAll(ctx)
}

// Get returns a template by id
func (s *TemplateService) Get(ctx context.Context, id uint) (*syncdomain.Template, error) {
	return s.templates.FindByID(ctx, id)
}

// Create creates a template with the given name and field list
func (s *TemplateService) Create(ctx context.Context, name string, fields []string) (*syncdomain.Template, error) {
	template, err := syncdomain.NewTemplate(name, fields)
	if err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	s.logger.Info("template created",
		zap.Uint("id", template.ID),
		zap.String("name", name),
		zap.Int("fields", len(fields)))
	return template, nil
}

// UpdateFields replaces the field list of a template
func (s *TemplateService) UpdateFields(ctx context.Context, id uint, fields []string) (*syncdomain.Template, error) {
	template, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := template.SetFields(fields); err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("template deleted", zap.Uint("id", id))
	return nil
}
