package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkpost/blog-backend/database"
	"github.com/inkpost/blog-backend/models"
)

// newTestDB opens an isolated sqlite database per test case.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blog.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestAuthor inserts a user posts can reference.
func newTestAuthor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.User{Username: "admin", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func testInput(title string, tags ...string) PostInput {
	return PostInput{
		Title:   title,
		Excerpt: "An excerpt",
		Content: "Full content body",
		Date:    "2024-03-01",
		Tags:    tags,
	}
}

func ctx() context.Context {
	return context.Background()
}
