package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-bookshelf/internal/core/database"
	"go-gin-bookshelf/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Book{}))
	return db
}
