package bootstrap

import (
	"testing"

	"blogicum/internal/config"
	"blogicum/internal/database"
	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN("file::memory:")), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("disabled without password", func(t *testing.T) {
		db := setupDB(t)
		require.NoError(t, EnsureAdmin(&config.Config{AdminUsername: "root"}, db))

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("creates the admin", func(t *testing.T) {
		db := setupDB(t)
		cfg := &config.Config{AdminUsername: "root", AdminEmail: "Root@Example.com", AdminPassword: "Sup3r!Secret"}
		require.NoError(t, EnsureAdmin(cfg, db))
		require.NoError(t, EnsureAdmin(cfg, db))

		var admins []models.User
		require.NoError(t, db.Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.True(t, admins[0].IsAdmin)
		assert.Equal(t, "root@example.com", admins[0].Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("Sup3r!Secret")))
	})

	t.Run("promotes an existing user", func(t *testing.T) {
		db := setupDB(t)
		require.NoError(t, db.Create(&models.User{Username: "root", Email: "r@example.com", Password: "hash"}).Error)

		require.NoError(t, EnsureAdmin(&config.Config{AdminUsername: "root", AdminPassword: "x"}, db))

		var user models.User
		require.NoError(t, db.Where("username = ?", "root").First(&user).Error)
		assert.True(t, user.IsAdmin)
		assert.Equal(t, "hash", user.Password)
	})
}

func TestSeedIfEmpty(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, seedIfEmpty(db))

	var first int64
	db.Model(&models.Post{}).Count(&first)
	assert.Positive(t, first)

	require.NoError(t, seedIfEmpty(db))
	var second int64
	db.Model(&models.Post{}).Count(&second)
	assert.Equal(t, first, second)
}
