package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags and their
// article associations.
type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	ReplaceForArticle(ctx context.Context, articleID string, names []string) ([]models.Tag, error)
	ListByArticle(ctx context.Context, articleID string) ([]models.Tag, error)
	ListByArticles(ctx context.Context, articleIDs []string) (map[string][]models.Tag, error)
	All(ctx context.Context) ([]models.Tag, error)
	Search(ctx context.Context, query string, limit int) ([]models.Tag, error)
	WithCounts(ctx context.Context) ([]models.TagWithCount, error)
	Delete(ctx context.Context, id string) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := getOrCreateTag(r.db.WithContext(ctx), name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tag, nil
}

func getOrCreateTag(db *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name}
	if createErr := db.Create(&tag).Error; createErr != nil {
		// Lost a race with a concurrent insert; re-read the winner.
		if isUniqueConstraintError(createErr) {
			if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
			return &tag, nil
		}
		return nil, createErr
	}
	return &tag, nil
}

// ReplaceForArticle atomically replaces the article's tag set: within one
// transaction every existing association is removed and the new set is
// attached, creating missing tags on the way. Either the whole set is
// replaced or nothing changes.
func (r *tagRepository) ReplaceForArticle(ctx context.Context, articleID string, names []string) ([]models.Tag, error) {
	defer observability.TrackQuery("replace_for_article", "article_tags")()
	tags := []models.Tag{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", articleID).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			tag, err := getOrCreateTag(tx, name)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.ArticleTag{ArticleID: articleID, TagID: tag.ID}).Error; err != nil {
				return err
			}
			tags = append(tags, *tag)
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// ListByArticles fetches tag sets for many articles in one query, keyed by
// article ID. Used to decorate list and search responses.
func (r *tagRepository) ListByArticles(ctx context.Context, articleIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	type taggedRow struct {
		models.Tag
		ArticleID string `gorm:"->"`
	}
	var rows []taggedRow
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, article_tags.article_id AS article_id").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id IN ?", articleIDs).
		Order("tags.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], row.Tag)
	}
	return result, nil
}

func (r *tagRepository) All(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) Search(ctx context.Context, query string, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+escapeLike(query)+"%").
		Order("name ASC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// WithCounts returns all tags annotated with the number of published
// articles referencing each.
func (r *tagRepository) WithCounts(ctx context.Context) ([]models.TagWithCount, error) {
	var tags []models.TagWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, COUNT(articles.id) AS article_count").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tags.id").
		Joins("LEFT JOIN articles ON articles.id = article_tags.article_id AND articles.published = true").
		Group("tags.id").
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// Delete removes a tag that no article references. Deleting a tag still in
// use is a conflict.
func (r *tagRepository) Delete(ctx context.Context, id string) error {
	var inUse int64
	if err := r.db.WithContext(ctx).
		Model(&models.ArticleTag{}).
		Where("tag_id = ?", id).
		Count(&inUse).Error; err != nil {
		return models.NewInternalError(err)
	}
	if inUse > 0 {
		return models.NewConflictError("Tag is still attached to articles")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tag{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Tag", id)
	}
	return nil
}
