package syncapp

import (
	"context"
	"strings"
	"testing"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reconcilerMocks struct {
	products     *MockProductRepository
	categories   *MockCategoryRepository
	stock        *MockStockStatusRepository
	attrs        *MockAttributeValueRepository
	seo          *MockSeoRepository
	translations *MockTranslationRepository
}

func newTestReconciler(defaultStock string) (*Reconciler, *reconcilerMocks) {
	m := &reconcilerMocks{
		products:     new(MockProductRepository),
		categories:   new(MockCategoryRepository),
		stock:        new(MockStockStatusRepository),
		attrs:        new(MockAttributeValueRepository),
		seo:          new(MockSeoRepository),
		translations: new(MockTranslationRepository),
	}
	r := NewReconciler(
		m.products, m.categories, m.stock, m.attrs, m.seo, m.translations,
		NewRegistry(), defaultStock, zap.NewNop(),
	)
	return r, m
}

func rowWith(data map[string]string) *tabular.Row {
	row := tabular.NewRow(2)
	for k, v := range data {
		row.Set(k, v)
	}
	return row
}

func TestApplyUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Matching row writes nothing", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(testProduct(), nil)

		row := rowWith(map[string]string{
			"id":           "42",
			"name":         "Steel Hammer",
			"origin_price": "19.99",
			"category_id":  "Tools",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUnchanged, outcome.Action)
		assert.Equal(t, uint(42), outcome.ProductID)
		m.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Changed scalar saves once", func(t *testing.T) {
		r, m := newTestReconciler("")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)

		row := rowWith(map[string]string{
			"id":           "42",
			"name":         "Iron Hammer",
			"origin_price": "19.99",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		assert.Equal(t, "Iron Hammer", p.Name)
		m.products.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("Unknown id falls through to create", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.products.On("ExistsByID", mock.Anything, uint(555)).Return(false, nil)
		m.categories.On("FindByName", mock.Anything, "Tools").
			Return(&catalog.Category{BaseEntity: shared.BaseEntity{ID: 7}, Name: "Tools", Slug: "tools"}, nil)
		m.stock.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)
		m.products.On("ExistsBySlug", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		m.products.On("ExistsBySKU", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		m.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		row := rowWith(map[string]string{
			"id":           "555",
			"name":         "Ghost Lamp",
			"origin_price": "10.00",
			"category_id":  "Tools",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionCreated, outcome.Action)
		m.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Non-numeric id is a type error", func(t *testing.T) {
		r, _ := newTestReconciler("")

		row := rowWith(map[string]string{"id": "abc"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 1)
		assert.Equal(t, tabular.ErrCodeInvalidType, rowErrs[0].Code)
	})

	t.Run("Decode failure skips the save", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(testProduct(), nil)

		row := rowWith(map[string]string{"id": "42", "origin_price": "not-a-number"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 1)
		assert.Equal(t, "origin_price", rowErrs[0].Field)
		m.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Category change resolves the reference", func(t *testing.T) {
		r, m := newTestReconciler("")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)
		m.categories.On("FindByID", mock.Anything, uint(9)).
			Return(&catalog.Category{BaseEntity: shared.BaseEntity{ID: 9}, Name: "Garden", Slug: "garden"}, nil)

		row := rowWith(map[string]string{"id": "42", "category_id": "9"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, uint(9), *p.CategoryID)
	})

	t.Run("Unresolvable category fails the row", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(testProduct(), nil)
		m.categories.On("FindByID", mock.Anything, uint(9)).Return(nil, shared.ErrNotFound)

		row := rowWith(map[string]string{"id": "42", "category_id": "9"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 1)
		assert.Equal(t, tabular.ErrCodeReference, rowErrs[0].Code)
		m.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Attribute columns replace the union", func(t *testing.T) {
		r, m := newTestReconciler("")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)

		found := []catalog.AttributeValue{
			{BaseEntity: shared.BaseEntity{ID: 100}, AttributeID: 5, Name: "Red"},
			{BaseEntity: shared.BaseEntity{ID: 103}, AttributeID: 5, Name: "Green"},
			{BaseEntity: shared.BaseEntity{ID: 102}, AttributeID: 6, Name: "Steel"},
			// Same name under a different attribute must not leak in.
			{BaseEntity: shared.BaseEntity{ID: 200}, AttributeID: 9, Name: "Green"},
		}
		m.attrs.On("FindByNames", mock.Anything, mock.AnythingOfType("[]string")).Return(found, nil)
		m.products.On("ReplaceAttributeValues", mock.Anything, p, mock.MatchedBy(func(values []catalog.AttributeValue) bool {
			if len(values) != 3 {
				return false
			}
			for _, v := range values {
				if v.AttributeID == 9 {
					return false
				}
			}
			return true
		})).Return(nil)

		row := rowWith(map[string]string{
			"id":          "42",
			"attribute_5": "Red, Green",
			"attribute_6": "Steel",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		m.products.AssertCalled(t, "ReplaceAttributeValues", mock.Anything, p, mock.Anything)
	})

	t.Run("Seo upsert gated on title", func(t *testing.T) {
		r, m := newTestReconciler("")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)
		m.seo.On("Upsert", mock.Anything, uint(42), uint(2), mock.AnythingOfType("catalog.SeoFields")).Return(nil)

		// German gets a title, English loses its content but keeps no title.
		row := rowWith(map[string]string{
			"id":         "42",
			"title_de":   "Stahlhammer kaufen",
			"heading_en": "Ignored heading",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		m.seo.AssertNumberOfCalls(t, "Upsert", 1)
	})

	t.Run("Translation upsert on key presence", func(t *testing.T) {
		r, m := newTestReconciler("")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)
		m.translations.On("Upsert", mock.Anything, uint(42), uint(1), "Steel Hammer EN").Return(nil)

		row := rowWith(map[string]string{"id": "42", "name_en": "Steel Hammer EN"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		m.translations.AssertExpectations(t)
	})

	t.Run("Unknown stock status fails the update", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(testProduct(), nil)
		m.stock.On("FindByName", mock.Anything, "Discontinued").Return(nil, shared.ErrNotFound)

		row := rowWith(map[string]string{"id": "42", "stock_status_id": "Discontinued"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 1)
		assert.Equal(t, tabular.ErrCodeReference, rowErrs[0].Code)
		assert.Equal(t, "stock_status_id", rowErrs[0].Field)
		m.stock.AssertNotCalled(t, "FindByName", mock.Anything, "In Stock")
		m.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Empty stock status clears it", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		p := testProduct()
		m.products.On("ExistsByID", mock.Anything, uint(42)).Return(true, nil)
		m.products.On("FindByID", mock.Anything, uint(42)).Return(p, nil)
		m.products.On("Save", mock.Anything, p).Return(nil)

		row := rowWith(map[string]string{"id": "42", "stock_status_id": ""})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionUpdated, outcome.Action)
		assert.Nil(t, p.StockStatusID)
	})
}

func TestApplyCreate(t *testing.T) {
	ctx := context.Background()

	tools := &catalog.Category{BaseEntity: shared.BaseEntity{ID: 7}, Name: "Tools", Slug: "tools"}
	inStock := &catalog.StockStatus{BaseEntity: shared.BaseEntity{ID: 3}, Name: "In Stock"}

	t.Run("Creates from a full row", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		m.categories.On("FindByName", mock.Anything, "Tools").Return(tools, nil)
		m.stock.On("FindByName", mock.Anything, "In Stock").Return(inStock, nil)
		m.products.On("ExistsBySlug", mock.Anything, "cordless-drill").Return(false, nil)
		m.products.On("ExistsBySKU", mock.Anything, "DRL-18").Return(false, nil)

		var created *catalog.Product
		m.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*catalog.Product)
				created.ID = 77
			}).Return(nil)

		row := rowWith(map[string]string{
			"name":         "Cordless Drill",
			"origin_price": "129.90",
			"category_id":  "Tools",
			"sku":          "DRL-18",
			"status":       "1",
			"images":       "drill.jpg",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionCreated, outcome.Action)
		assert.Equal(t, uint(77), outcome.ProductID)
		require.NotNil(t, created)
		assert.Equal(t, "cordless-drill", created.Slug)
		assert.Equal(t, "DRL-18", created.SKU)
		assert.Equal(t, []string{"drill.jpg"}, created.Images)
		require.NotNil(t, created.StockStatusID)
		assert.Equal(t, uint(3), *created.StockStatusID)
	})

	t.Run("All anchor failures reported together", func(t *testing.T) {
		r, _ := newTestReconciler("")

		row := rowWith(map[string]string{"sorting": "1"})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 3)
		fields := []string{rowErrs[0].Field, rowErrs[1].Field, rowErrs[2].Field}
		assert.ElementsMatch(t, []string{"name", "origin_price", "category_id"}, fields)
	})

	t.Run("Unknown category fails creation", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.categories.On("FindByName", mock.Anything, "Nope").Return(nil, shared.ErrNotFound)

		row := rowWith(map[string]string{
			"name":         "Thing",
			"origin_price": "1.00",
			"category_id":  "Nope",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		assert.Nil(t, outcome)
		require.Len(t, rowErrs, 1)
		assert.Equal(t, tabular.ErrCodeReference, rowErrs[0].Code)
	})

	t.Run("Slug collision appends a random suffix", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.categories.On("FindByID", mock.Anything, uint(7)).Return(tools, nil)
		m.stock.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)
		m.products.On("ExistsBySlug", mock.Anything, "cordless-drill").Return(true, nil).Once()
		m.products.On("ExistsBySlug", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		m.products.On("ExistsBySKU", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		var created *catalog.Product
		m.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*catalog.Product) }).Return(nil)

		row := rowWith(map[string]string{
			"name":         "Cordless Drill",
			"origin_price": "5.00",
			"category_id":  "7",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionCreated, outcome.Action)
		require.NotNil(t, created)
		assert.True(t, strings.HasPrefix(created.Slug, "cordless-drill-"))
		assert.Len(t, created.Slug, len("cordless-drill-")+slugSuffixLength)
	})

	t.Run("Taken SKU is re-rolled", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.categories.On("FindByID", mock.Anything, uint(7)).Return(tools, nil)
		m.stock.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)
		m.products.On("ExistsBySlug", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		m.products.On("ExistsBySKU", mock.Anything, "TAKEN").Return(true, nil).Once()
		m.products.On("ExistsBySKU", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		var created *catalog.Product
		m.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*catalog.Product) }).Return(nil)

		row := rowWith(map[string]string{
			"name":         "Thing",
			"origin_price": "5.00",
			"category_id":  "7",
			"sku":          "TAKEN",
		})
		outcome, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		assert.Equal(t, ActionCreated, outcome.Action)
		require.NotNil(t, created)
		assert.NotEqual(t, "TAKEN", created.SKU)
		assert.Len(t, created.SKU, skuLength)
	})

	t.Run("Missing SKU generated", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.categories.On("FindByID", mock.Anything, uint(7)).Return(tools, nil)
		m.stock.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)
		m.products.On("ExistsBySlug", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		m.products.On("ExistsBySKU", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		var created *catalog.Product
		m.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*catalog.Product) }).Return(nil)

		row := rowWith(map[string]string{
			"name":         "Thing",
			"origin_price": "5.00",
			"category_id":  "7",
		})
		_, rowErrs := r.Apply(ctx, row, testLanguages())

		require.Empty(t, rowErrs)
		require.NotNil(t, created)
		assert.Len(t, created.SKU, skuLength)
	})
}

func TestResolveStockStatus(t *testing.T) {
	ctx := context.Background()
	inStock := &catalog.StockStatus{BaseEntity: shared.BaseEntity{ID: 3}, Name: "In Stock"}
	preorder := &catalog.StockStatus{BaseEntity: shared.BaseEntity{ID: 4}, Name: "Preorder"}

	t.Run("Named status wins", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		m.stock.On("FindByName", mock.Anything, "Preorder").Return(preorder, nil)

		status, err := r.resolveStockStatus(ctx, "Preorder")

		require.NoError(t, err)
		assert.Equal(t, uint(4), status.ID)
	})

	t.Run("Falls back to configured default", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		m.stock.On("FindByName", mock.Anything, "Gone").Return(nil, shared.ErrNotFound)
		m.stock.On("FindByName", mock.Anything, "In Stock").Return(inStock, nil)

		status, err := r.resolveStockStatus(ctx, "Gone")

		require.NoError(t, err)
		assert.Equal(t, uint(3), status.ID)
	})

	t.Run("Falls back to first status", func(t *testing.T) {
		r, m := newTestReconciler("In Stock")
		m.stock.On("FindByName", mock.Anything, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)
		m.stock.On("FindFirst", mock.Anything).Return(preorder, nil)

		status, err := r.resolveStockStatus(ctx, "Gone")

		require.NoError(t, err)
		assert.Equal(t, uint(4), status.ID)
	})

	t.Run("Resolves to nothing when no statuses exist", func(t *testing.T) {
		r, m := newTestReconciler("")
		m.stock.On("FindFirst", mock.Anything).Return(nil, shared.ErrNotFound)

		status, err := r.resolveStockStatus(ctx, "")

		require.NoError(t, err)
		assert.Nil(t, status)
	})
}
