package seed

import (
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{NumUsers: 3, ArticlesPerUser: 4, SkipBcrypt: true})
	require.NoError(t, err)

	var userCount, articleCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Article{}).Count(&articleCount).Error)
	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(12), articleCount)

	// Every seeded published article carries its draft->published audit entry.
	var publishedCount, historyCount int64
	require.NoError(t, db.Model(&models.Article{}).Where("published = ?", true).Count(&publishedCount).Error)
	require.NoError(t, db.Model(&models.ArticleStatusHistory{}).Count(&historyCount).Error)
	assert.Equal(t, publishedCount, historyCount)
}

func TestFactory_AttachTags(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db, Options{SkipBcrypt: true})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	article, err := factory.CreateArticle(user)
	require.NoError(t, err)

	require.NoError(t, factory.AttachTags(article, []string{"golang", "homelab"}))
	// Attaching the same name again for another article reuses the tag row.
	other, err := factory.CreateArticle(user)
	require.NoError(t, err)
	require.NoError(t, factory.AttachTags(other, []string{"golang"}))

	var tagCount, linkCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.ArticleTag{}).Count(&linkCount).Error)
	assert.Equal(t, int64(2), tagCount)
	assert.Equal(t, int64(3), linkCount)
}

func TestSeed_DryRunWritesNothing(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{NumUsers: 2, ArticlesPerUser: 2, SkipBcrypt: true, DryRun: true})
	require.NoError(t, err)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}
