package sync

import (
	"context"
)

// TemplateRepository defines the interface for template persistence
type TemplateRepository interface {
	// FindByID finds a template by its ID
	FindByID(ctx context.Context, id uint) (*Template, error)

	// FindAll returns all templates ordered by creation time
	FindAll(ctx context.Context) ([]Template, error)

	// Save creates or updates a template
	Save(ctx context.Context, template *Template) error

	// Delete deletes a template
	Delete(ctx context.Context, id uint) error
}
