package services

import (
	"testing"
	"time"

	"github.com/gezzzi/taskdeck/internal/config"
	"github.com/gezzzi/taskdeck/internal/models"
	"github.com/gezzzi/taskdeck/internal/versioning"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the versioning plugin
// installed and the full schema migrated. One connection only, so the
// in-memory database is shared across the test's queries.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Use(versioning.New()))
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Category{},
		&models.Todo{},
		&models.SystemLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,

		SearchRankExact:      1.0,
		SearchRankPrefix:     0.8,
		SearchRankSubstring:  0.6,
		SearchFuzzyThreshold: 0.2,
		SearchPageSize:       10,
		SuggestionLimit:      5,
	}
}

func createTodo(t *testing.T, db *gorm.DB, userID uuid.UUID, title string) models.Todo {
	t.Helper()
	return createTodoAt(t, db, userID, title, time.Time{})
}

func createTodoAt(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, at time.Time) models.Todo {
	t.Helper()
	todo := models.Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Version:   1,
		CreatedAt: at,
	}
	require.NoError(t, db.Create(&todo).Error)
	return todo
}

func createCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) models.Category {
	t.Helper()
	category := models.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  "#3b82f6",
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func loadTodo(t *testing.T, db *gorm.DB, id uuid.UUID) models.Todo {
	t.Helper()
	var todo models.Todo
	require.NoError(t, db.First(&todo, "id = ?", id).Error)
	return todo
}
