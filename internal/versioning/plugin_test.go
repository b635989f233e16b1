package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type versionedNote struct {
	ID      uint `gorm:"primaryKey"`
	Body    string
	Version int `gorm:"not null;default:1"`
}

type plainNote struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func newPluginDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Use(New()))
	require.NoError(t, db.AutoMigrate(&versionedNote{}, &plainNote{}))
	return db
}

func TestMapUpdatesBumpVersion(t *testing.T) {
	db := newPluginDB(t)

	note := versionedNote{Body: "first", Version: 1}
	require.NoError(t, db.Create(&note).Error)

	res := db.Model(&versionedNote{}).Where("id = ?", note.ID).
		Updates(map[string]interface{}{"body": "second"})
	require.NoError(t, res.Error)
	require.Equal(t, int64(1), res.RowsAffected)

	var stored versionedNote
	require.NoError(t, db.First(&stored, note.ID).Error)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, "second", stored.Body)
}

func TestSetBasedUpdateBumpsEveryRow(t *testing.T) {
	db := newPluginDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&versionedNote{Body: "n", Version: 1}).Error)
	}

	res := db.Model(&versionedNote{}).Where("1 = 1").
		Updates(map[string]interface{}{"body": "bulk"})
	require.NoError(t, res.Error)
	require.Equal(t, int64(3), res.RowsAffected)

	var notes []versionedNote
	require.NoError(t, db.Find(&notes).Error)
	for _, n := range notes {
		assert.Equal(t, 2, n.Version)
	}
}

func TestStructSaveBumpsVersion(t *testing.T) {
	db := newPluginDB(t)

	note := versionedNote{Body: "first", Version: 1}
	require.NoError(t, db.Create(&note).Error)

	note.Body = "second"
	require.NoError(t, db.Save(&note).Error)

	var stored versionedNote
	require.NoError(t, db.First(&stored, note.ID).Error)
	assert.Equal(t, 2, stored.Version)
}

func TestModelsWithoutVersionAreUntouched(t *testing.T) {
	db := newPluginDB(t)

	note := plainNote{Body: "first"}
	require.NoError(t, db.Create(&note).Error)

	res := db.Model(&plainNote{}).Where("id = ?", note.ID).
		Updates(map[string]interface{}{"body": "second"})
	require.NoError(t, res.Error)
	require.Equal(t, int64(1), res.RowsAffected)

	var stored plainNote
	require.NoError(t, db.First(&stored, note.ID).Error)
	assert.Equal(t, "second", stored.Body)
}
