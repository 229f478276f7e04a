package syncapp

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxGenerateAttempts bounds slug and SKU regeneration on collisions
const maxGenerateAttempts = 10

// Action describes what the reconciler did with one row
type Action string

const (
	// ActionCreated means a new product was created from the row
	ActionCreated Action = "created"
	// ActionUpdated means an existing product was changed and saved
	ActionUpdated Action = "updated"
	// ActionUnchanged means the row matched current state and no write happened
	ActionUnchanged Action = "unchanged"
)

// Outcome is the per-row result of reconciliation
type Outcome struct {
	Action    Action
	ProductID uint
}

// Reconciler applies incoming rows to the catalog. A row whose id
// names an existing product updates it by diffing against its
// re-encoded current state; any other row creates a product. Each row
// is independent: failures are reported as row errors and never stop
// the batch.
type Reconciler struct {
	products        catalog.ProductRepository
	categories      catalog.CategoryRepository
	stockStatuses   catalog.StockStatusRepository
	attributeValues catalog.AttributeValueRepository
	seo             catalog.SeoRepository
	translations    catalog.TranslationRepository
	registry        *Registry
	codec           *Codec
	defaultStock    string
	logger          *zap.Logger
}

// NewReconciler creates a reconciler. defaultStockStatus names the
// configured fallback stock status for created rows that do not
// resolve one.
func NewReconciler(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	stockStatuses catalog.StockStatusRepository,
	attributeValues catalog.AttributeValueRepository,
	seo catalog.SeoRepository,
	translations catalog.TranslationRepository,
	registry *Registry,
	defaultStockStatus string,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		products:        products,
		categories:      categories,
		stockStatuses:   stockStatuses,
		attributeValues: attributeValues,
		seo:             seo,
		translations:    translations,
		registry:        registry,
		codec:           NewCodec(registry),
		defaultStock:    defaultStockStatus,
		logger:          logger,
	}
}

// Apply reconciles one row. A nil outcome means the row failed; the
// returned errors carry the row's line number and field context. A row
// id that matches no product falls through to creation.
func (r *Reconciler) Apply(ctx context.Context, row *tabular.Row, languages map[string]catalog.Language) (*Outcome, []tabular.RowError) {
	if idValue := strings.TrimSpace(row.Get(FieldID)); idValue != "" {
		id, err := strconv.ParseUint(idValue, 10, 32)
		if err != nil {
			return nil, []tabular.RowError{tabular.NewRowErrorWithValue(
				row.LineNumber, FieldID, tabular.ErrCodeInvalidType, "id must be a positive integer", idValue)}
		}
		exists, err := r.products.ExistsByID(ctx, uint(id))
		if err != nil {
			return nil, []tabular.RowError{tabular.NewRowError(
				row.LineNumber, FieldID, tabular.ErrCodePersistence, err.Error())}
		}
		if exists {
			return r.update(ctx, row, uint(id), languages)
		}
	}
	return r.create(ctx, row, languages)
}

// update diffs the row against the product's re-encoded current state
// and decodes only the keys that changed. An empty diff writes nothing.
func (r *Reconciler) update(ctx context.Context, row *tabular.Row, id uint, languages map[string]catalog.Language) (*Outcome, []tabular.RowError) {
	product, err := r.products.FindByID(ctx, id)
	if err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, FieldID, tabular.ErrCodePersistence, err.Error())}
	}

	ec := &EncodeContext{Languages: languages}
	changed := make([]string, 0, len(row.Data))
	for key, incoming := range row.Data {
		if key == FieldID {
			continue
		}
		res := r.registry.Resolve(key)
		if !res.CanDecode() {
			continue
		}
		if res.Encode(ec, product) != incoming {
			changed = append(changed, key)
		}
	}
	if len(changed) == 0 {
		return &Outcome{Action: ActionUnchanged, ProductID: product.ID}, nil
	}

	m := NewMutation(row, product, false, languages)
	if rowErrs := r.decode(m, changed); len(rowErrs) > 0 {
		return nil, rowErrs
	}
	if rowErrs := r.resolveReferences(ctx, m); len(rowErrs) > 0 {
		return nil, rowErrs
	}

	if err := r.products.Save(ctx, product); err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, "", tabular.ErrCodePersistence, err.Error())}
	}
	if rowErrs := r.applyAssociations(ctx, m); len(rowErrs) > 0 {
		return nil, rowErrs
	}

	r.logger.Debug("product updated from row",
		zap.Uint("product_id", product.ID),
		zap.Int("row", row.LineNumber),
		zap.Strings("changed", changed))
	return &Outcome{Action: ActionUpdated, ProductID: product.ID}, nil
}

// create validates the anchors, generates a unique slug and SKU, and
// builds a new product from every decodable key the row carries.
func (r *Reconciler) create(ctx context.Context, row *tabular.Row, languages map[string]catalog.Language) (*Outcome, []tabular.RowError) {
	var rowErrs []tabular.RowError

	name := strings.TrimSpace(row.Get(FieldName))
	if name == "" {
		rowErrs = append(rowErrs, tabular.NewRowError(
			row.LineNumber, FieldName, tabular.ErrCodeValidation, "name is required"))
	}

	price := decimal.Zero
	priceValue := strings.TrimSpace(row.Get(FieldOriginPrice))
	if priceValue == "" {
		rowErrs = append(rowErrs, tabular.NewRowError(
			row.LineNumber, FieldOriginPrice, tabular.ErrCodeValidation, "origin_price is required"))
	} else {
		parsed, err := decimal.NewFromString(priceValue)
		switch {
		case err != nil:
			rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
				row.LineNumber, FieldOriginPrice, tabular.ErrCodeInvalidType, "invalid price", priceValue))
		case parsed.IsNegative():
			rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
				row.LineNumber, FieldOriginPrice, tabular.ErrCodeValidation, "price cannot be negative", priceValue))
		default:
			price = parsed
		}
	}

	var category *catalog.Category
	categoryRef := strings.TrimSpace(row.Get(FieldCategoryID))
	if categoryRef == "" {
		rowErrs = append(rowErrs, tabular.NewRowError(
			row.LineNumber, FieldCategoryID, tabular.ErrCodeValidation, "category_id is required"))
	} else {
		resolved, err := r.resolveCategory(ctx, categoryRef)
		if err != nil {
			rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
				row.LineNumber, FieldCategoryID, tabular.ErrCodeReference, "category not found", categoryRef))
		} else {
			category = resolved
		}
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}

	slug, err := r.uniqueSlug(ctx, name)
	if err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, FieldName, tabular.ErrCodePersistence, err.Error())}
	}
	sku, err := r.uniqueSKU(ctx, strings.TrimSpace(row.Get(FieldSKU)))
	if err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, FieldSKU, tabular.ErrCodePersistence, err.Error())}
	}

	product, err := catalog.NewProduct(name, slug, sku, category.ID, price)
	if err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, "", tabular.ErrCodeValidation, err.Error())}
	}

	status, err := r.resolveStockStatus(ctx, strings.TrimSpace(row.Get(FieldStockStatusID)))
	if err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, FieldStockStatusID, tabular.ErrCodePersistence, err.Error())}
	}
	if status != nil {
		product.SetStockStatus(&status.ID)
	}

	m := NewMutation(row, product, true, languages)
	remaining := make([]string, 0, len(row.Data))
	for key := range row.Data {
		if createConsumed[key] {
			continue
		}
		remaining = append(remaining, key)
	}
	if rowErrs := r.decode(m, remaining); len(rowErrs) > 0 {
		return nil, rowErrs
	}
	if rowErrs := r.resolveReferences(ctx, m); len(rowErrs) > 0 {
		return nil, rowErrs
	}

	if err := r.products.Save(ctx, product); err != nil {
		return nil, []tabular.RowError{tabular.NewRowError(
			row.LineNumber, "", tabular.ErrCodePersistence, err.Error())}
	}
	if rowErrs := r.applyAssociations(ctx, m); len(rowErrs) > 0 {
		return nil, rowErrs
	}

	r.logger.Debug("product created from row",
		zap.Uint("product_id", product.ID),
		zap.Int("row", row.LineNumber),
		zap.String("slug", product.Slug))
	return &Outcome{Action: ActionCreated, ProductID: product.ID}, nil
}

// createConsumed lists the keys the create path handles before running
// decoders, so they are not decoded a second time.
var createConsumed = map[string]bool{
	FieldID:            true,
	FieldName:          true,
	FieldCategoryID:    true,
	FieldOriginPrice:   true,
	FieldSKU:           true,
	FieldStockStatusID: true,
}

// decode runs the decoders for the given keys, collecting every field
// failure instead of stopping at the first.
func (r *Reconciler) decode(m *Mutation, keys []string) []tabular.RowError {
	var rowErrs []tabular.RowError
	for _, key := range keys {
		res := r.registry.Resolve(key)
		if !res.CanDecode() {
			continue
		}
		if err := res.Decode(m, m.Row.Get(key)); err != nil {
			code := tabular.ErrCodeValidation
			var fieldErr *FieldError
			if errors.As(err, &fieldErr) {
				code = fieldErr.Code
			}
			rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
				m.Row.LineNumber, key, code, err.Error(), m.Row.Get(key)))
		}
	}
	return rowErrs
}

// resolveReferences resolves the references decoders staged on the
// mutation: the primary category and the stock status.
func (r *Reconciler) resolveReferences(ctx context.Context, m *Mutation) []tabular.RowError {
	var rowErrs []tabular.RowError

	if m.CategoryTouched {
		ref := strings.TrimSpace(m.CategoryRef)
		if ref == "" {
			rowErrs = append(rowErrs, tabular.NewRowError(
				m.Row.LineNumber, FieldCategoryID, tabular.ErrCodeValidation, "category_id cannot be empty"))
		} else if category, err := r.resolveCategory(ctx, ref); err != nil {
			rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
				m.Row.LineNumber, FieldCategoryID, tabular.ErrCodeReference, "category not found", ref))
		} else {
			m.Product.SetCategory(category.ID)
		}
	}

	// Updates only accept a status that exists; the fallback chain
	// applies to creation alone.
	if m.StockStatusTouched {
		name := strings.TrimSpace(m.StockStatusRef)
		if name == "" {
			m.Product.SetStockStatus(nil)
		} else if status, err := r.stockStatuses.FindByName(ctx, name); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				rowErrs = append(rowErrs, tabular.NewRowErrorWithValue(
					m.Row.LineNumber, FieldStockStatusID, tabular.ErrCodeReference, "stock status not found", name))
			} else {
				rowErrs = append(rowErrs, tabular.NewRowError(
					m.Row.LineNumber, FieldStockStatusID, tabular.ErrCodePersistence, err.Error()))
			}
		} else {
			m.Product.SetStockStatus(&status.ID)
		}
	}

	return rowErrs
}

// applyAssociations applies the staged association, SEO and translation
// changes after the product row is saved.
func (r *Reconciler) applyAssociations(ctx context.Context, m *Mutation) []tabular.RowError {
	var rowErrs []tabular.RowError
	fail := func(field, code, message string) {
		rowErrs = append(rowErrs, tabular.NewRowError(m.Row.LineNumber, field, code, message))
	}

	if m.CategoriesTouched {
		found, err := r.categories.FindByNames(ctx, m.CategoryNames)
		if err != nil {
			fail(FieldCategories, tabular.ErrCodePersistence, err.Error())
		} else if err := r.products.ReplaceCategories(ctx, m.Product, found); err != nil {
			fail(FieldCategories, tabular.ErrCodePersistence, err.Error())
		}
	}

	if len(m.AttributeNames) > 0 {
		values, err := r.resolveAttributeValues(ctx, m.AttributeNames)
		if err != nil {
			fail(PrefixAttribute, tabular.ErrCodePersistence, err.Error())
		} else if err := r.products.ReplaceAttributeValues(ctx, m.Product, values); err != nil {
			fail(PrefixAttribute, tabular.ErrCodePersistence, err.Error())
		}
	}

	// SEO is written per language only when the row gives it a title.
	for languageID, fields := range m.Seo {
		if fields.Title == "" {
			continue
		}
		if err := r.seo.Upsert(ctx, m.Product.ID, languageID, fields); err != nil {
			fail("", tabular.ErrCodePersistence, err.Error())
		}
	}

	for languageID, value := range m.Translations {
		if err := r.translations.Upsert(ctx, m.Product.ID, languageID, value); err != nil {
			fail("", tabular.ErrCodePersistence, err.Error())
		}
	}

	return rowErrs
}

// resolveCategory accepts a numeric id or an exact category name
func (r *Reconciler) resolveCategory(ctx context.Context, ref string) (*catalog.Category, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return r.categories.FindByID(ctx, uint(id))
	}
	return r.categories.FindByName(ctx, ref)
}

// resolveStockStatus walks the creation fallback chain: the named
// status, then the configured default, then the first status, then
// none at all.
func (r *Reconciler) resolveStockStatus(ctx context.Context, name string) (*catalog.StockStatus, error) {
	if name != "" {
		status, err := r.stockStatuses.FindByName(ctx, name)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if r.defaultStock != "" && r.defaultStock != name {
		status, err := r.stockStatuses.FindByName(ctx, r.defaultStock)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	status, err := r.stockStatuses.FindFirst(ctx)
	if err == nil {
		return status, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// resolveAttributeValues loads the staged value names and keeps only
// the values belonging to the attribute that named them.
func (r *Reconciler) resolveAttributeValues(ctx context.Context, staged map[uint][]string) ([]catalog.AttributeValue, error) {
	wanted := make(map[uint]map[string]struct{}, len(staged))
	var allNames []string
	for attributeID, names := range staged {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
			allNames = append(allNames, n)
		}
		wanted[attributeID] = set
	}
	if len(allNames) == 0 {
		return nil, nil
	}

	found, err := r.attributeValues.FindByNames(ctx, allNames)
	if err != nil {
		return nil, err
	}
	var values []catalog.AttributeValue
	for _, v := range found {
		set, ok := wanted[v.AttributeID]
		if !ok {
			continue
		}
		if _, ok := set[v.Name]; ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// uniqueSlug slugifies the name and re-rolls a random suffix until the
// slug is free.
func (r *Reconciler) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}
	slug := base
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		exists, err := r.products.ExistsBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + strings.ToLower(RandomString(slugSuffixLength))
	}
	return "", shared.NewDomainError("SLUG_EXHAUSTED", "Could not generate a unique slug for '"+name+"'")
}

// uniqueSKU keeps a provided free SKU, otherwise generates random
// codes until one is free. A provided but taken SKU is replaced the
// same way rather than failing the row.
func (r *Reconciler) uniqueSKU(ctx context.Context, provided string) (string, error) {
	sku := provided
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		if sku != "" {
			exists, err := r.products.ExistsBySKU(ctx, sku)
			if err != nil {
				return "", err
			}
			if !exists {
				return sku, nil
			}
		}
		sku = RandomString(skuLength)
	}
	return "", shared.NewDomainError("SKU_EXHAUSTED", "Could not generate a unique SKU")
}
