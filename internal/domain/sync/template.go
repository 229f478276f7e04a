package sync

import (
	"fmt"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// Template is a user-defined ordered list of field keys controlling the
// shape of imports and exports. Field order defines column order on
// export; decoding is header-driven and does not depend on it.
type Template struct {
	shared.BaseEntity
	Name          string   `gorm:"type:varchar(255);not null"`
	Fields        []string `gorm:"serializer:json"`
	SpreadsheetID string   `gorm:"type:varchar(128)"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "import_templates"
}

// NewTemplate creates a new template with a validated field list
func NewTemplate(name string, fields []string) (*Template, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	return &Template{Name: name, Fields: fields}, nil
}

// SetFields replaces the field list
func (t *Template) SetFields(fields []string) error {
	if err := validateFields(fields); err != nil {
		return err
	}
	t.Fields = fields
	t.Touch()
	return nil
}

// LinkSpreadsheet records the external spreadsheet id for this template
func (t *Template) LinkSpreadsheet(spreadsheetID string) {
	t.SpreadsheetID = spreadsheetID
	t.Touch()
}

// HasSpreadsheet reports whether a spreadsheet is linked
func (t *Template) HasSpreadsheet() bool {
	return t.SpreadsheetID != ""
}

// validateFields rejects empty and duplicate field keys
func validateFields(fields []string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			return shared.NewDomainError("INVALID_FIELDS", "Field keys cannot be empty")
		}
		if _, ok := seen[f]; ok {
			return shared.NewDomainError("INVALID_FIELDS", fmt.Sprintf("Duplicate field key '%s'", f))
		}
		seen[f] = struct{}{}
	}
	return nil
}
