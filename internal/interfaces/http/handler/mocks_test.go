package handler

import (
	"context"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	syncdomain "github.com/DiVotek/smart-cms-products-import/internal/domain/sync"
	"github.com/stretchr/testify/mock"
)

// MockTemplateRepository is a mock implementation of sync.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uint) (*syncdomain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncdomain.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context) ([]syncdomain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]syncdomain.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *syncdomain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceCategories(ctx context.Context, product *catalog.Product, categories []catalog.Category) error {
	args := m.Called(ctx, product, categories)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceAttributeValues(ctx context.Context, product *catalog.Product, values []catalog.AttributeValue) error {
	args := m.Called(ctx, product, values)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByNames(ctx context.Context, names []string) ([]catalog.Category, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockStockStatusRepository is a mock implementation of catalog.StockStatusRepository
type MockStockStatusRepository struct {
	mock.Mock
}

func (m *MockStockStatusRepository) FindByName(ctx context.Context, name string) (*catalog.StockStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockStatus), args.Error(1)
}

func (m *MockStockStatusRepository) FindFirst(ctx context.Context) (*catalog.StockStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockStatus), args.Error(1)
}

func (m *MockStockStatusRepository) Save(ctx context.Context, status *catalog.StockStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

// MockAttributeValueRepository is a mock implementation of catalog.AttributeValueRepository
type MockAttributeValueRepository struct {
	mock.Mock
}

func (m *MockAttributeValueRepository) FindByNames(ctx context.Context, names []string) ([]catalog.AttributeValue, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.AttributeValue), args.Error(1)
}

func (m *MockAttributeValueRepository) Save(ctx context.Context, value *catalog.AttributeValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

// MockLanguageRepository is a mock implementation of catalog.LanguageRepository
type MockLanguageRepository struct {
	mock.Mock
}

func (m *MockLanguageRepository) FindActive(ctx context.Context) ([]catalog.Language, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Language), args.Error(1)
}

func (m *MockLanguageRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Language, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Language), args.Error(1)
}

func (m *MockLanguageRepository) Save(ctx context.Context, language *catalog.Language) error {
	args := m.Called(ctx, language)
	return args.Error(0)
}

// MockSeoRepository is a mock implementation of catalog.SeoRepository
type MockSeoRepository struct {
	mock.Mock
}

func (m *MockSeoRepository) Upsert(ctx context.Context, productID, languageID uint, fields catalog.SeoFields) error {
	args := m.Called(ctx, productID, languageID, fields)
	return args.Error(0)
}

// MockTranslationRepository is a mock implementation of catalog.TranslationRepository
type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) Upsert(ctx context.Context, productID, languageID uint, value string) error {
	args := m.Called(ctx, productID, languageID, value)
	return args.Error(0)
}

// MockBlobUploader is a mock implementation of BlobUploader
type MockBlobUploader struct {
	mock.Mock
}

func (m *MockBlobUploader) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	args := m.Called(ctx, name, data, contentType)
	return args.Error(0)
}
