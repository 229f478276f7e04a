package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCategoryRepository creates a GormCategoryRepository with a mocked SQL connection
func newMockCategoryRepository(t *testing.T) (*GormCategoryRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCategoryRepository(gormDB), mock, mockDB
}

func TestGormCategoryRepository_FindByName(t *testing.T) {
	t.Run("finds existing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(7, "Tools", "tools")

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Tools", 1).
			WillReturnRows(rows)

		category, err := repo.FindByName(context.Background(), "Tools")

		require.NoError(t, err)
		assert.Equal(t, uint(7), category.ID)
		assert.Equal(t, "tools", category.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates missing row to domain not-found", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByName(context.Background(), "Ghost")

		assert.Nil(t, category)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_FindByNames(t *testing.T) {
	t.Run("empty name set short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categories, err := repo.FindByNames(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, categories)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads all matching names", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(7, "Tools", "tools").
			AddRow(8, "Hardware", "hardware")

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name IN \(\$1,\$2\)`).
			WithArgs("Tools", "Hardware").
			WillReturnRows(rows)

		categories, err := repo.FindByNames(context.Background(), []string{"Tools", "Hardware"})

		require.NoError(t, err)
		assert.Len(t, categories, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
