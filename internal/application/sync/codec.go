package syncapp

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
)

// Codec turns products into keyed rows using the registry
type Codec struct {
	registry *Registry
}

// NewCodec creates a codec over a registry
func NewCodec(registry *Registry) *Codec {
	return &Codec{registry: registry}
}

// EffectiveFields prepends the anchor fields a template omits, in
// anchor order, ahead of the template's own order. The result is a
// fresh slice; the template's stored list is never mutated.
func EffectiveFields(fields []string) []string {
	present := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		present[f] = struct{}{}
	}
	missing := make([]string, 0, len(AnchorFields))
	for _, a := range AnchorFields {
		if _, ok := present[a]; !ok {
			missing = append(missing, a)
		}
	}
	out := make([]string, 0, len(missing)+len(fields))
	out = append(out, missing...)
	out = append(out, fields...)
	return out
}

// Encode renders a product as a row under the given field list. Every
// field gets a cell; unresolvable references render as "".
func (c *Codec) Encode(ec *EncodeContext, p *catalog.Product, fields []string) *tabular.Row {
	row := tabular.NewRow(0)
	for _, f := range fields {
		row.Set(f, c.registry.Resolve(f).Encode(ec, p))
	}
	return row
}
