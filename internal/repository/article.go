// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// substringHighlightLen is the rune length of the content prefix used as a
// highlight when the substring fallback matched only the body.
const substringHighlightLen = 160

// ArticleUpdate carries a partial article update. Nil fields are left
// untouched; set fields are written as-is.
type ArticleUpdate struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Published *bool
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Update(ctx context.Context, id string, upd ArticleUpdate) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, published *bool, limit, offset int) ([]*models.Article, error)
	CountByOwner(ctx context.Context, ownerID string, published *bool) (int64, error)
	SearchRank(ctx context.Context, ownerID, query string, limit int) ([]*models.SearchResult, error)
	SearchSubstring(ctx context.Context, ownerID, query string, limit int) ([]*models.SearchResult, error)
	AppendStatusHistory(ctx context.Context, entry *models.ArticleStatusHistory) error
	ListStatusHistory(ctx context.Context, articleID string) ([]models.ArticleStatusHistory, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	defer observability.TrackQuery("create", "articles")()
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// withAuthor joins the owning user so AuthorName/AuthorEmail are populated
// in the same query.
func (r *articleRepository) withAuthor(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Article{}).
		Select("articles.*, users.name AS author_name, users.email AS author_email").
		Joins("JOIN users ON users.id = articles.user_id")
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	defer observability.TrackQuery("get_by_id", "articles")()
	var article models.Article
	err := r.withAuthor(r.db.WithContext(ctx)).
		Where("articles.id = ?", id).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

func (r *articleRepository) Update(ctx context.Context, id string, upd ArticleUpdate) error {
	defer observability.TrackQuery("update", "articles")()
	fields := map[string]interface{}{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.Excerpt != nil {
		fields["excerpt"] = *upd.Excerpt
	}
	if upd.Published != nil {
		fields["published"] = *upd.Published
	}
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Article", id)
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "articles")()
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Article{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Article", id)
	}
	return nil
}

func (r *articleRepository) ListByOwner(ctx context.Context, ownerID string, published *bool, limit, offset int) ([]*models.Article, error) {
	defer observability.TrackQuery("list_by_owner", "articles")()
	var articles []*models.Article
	q := r.withAuthor(r.db.WithContext(ctx)).
		Where("articles.user_id = ?", ownerID)
	if published != nil {
		q = q.Where("articles.published = ?", *published)
	}
	err := q.Order("articles.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) CountByOwner(ctx context.Context, ownerID string, published *bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("user_id = ?", ownerID)
	if published != nil {
		q = q.Where("published = ?", *published)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// SearchRank runs the full-text tier: tsvector match ranked by ts_rank with a
// ts_headline snippet. Results are scoped to the owner and ordered by rank,
// then recency.
func (r *articleRepository) SearchRank(ctx context.Context, ownerID, query string, limit int) ([]*models.SearchResult, error) {
	span, ctx := observability.StartQuerySpan(ctx, "search_rank", "articles")
	defer span.End()
	defer observability.TrackQuery("search_rank", "articles")()

	var results []*models.SearchResult
	err := r.db.WithContext(ctx).Raw(`
SELECT articles.*,
       users.name AS author_name,
       users.email AS author_email,
       ts_rank(articles.search_vector, plainto_tsquery('english', @q)) AS rank,
       ts_headline('english', articles.content, plainto_tsquery('english', @q), 'MaxWords=20, MinWords=5') AS highlight
FROM articles
JOIN users ON users.id = articles.user_id
WHERE articles.user_id = @owner
  AND articles.search_vector @@ plainto_tsquery('english', @q)
ORDER BY rank DESC, articles.created_at DESC
LIMIT @limit`,
		map[string]interface{}{"q": query, "owner": ownerID, "limit": limit},
	).Scan(&results).Error
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	return results, nil
}

// SearchSubstring runs the fallback tier: case-insensitive substring match
// over title, excerpt and content. Rank is a constant zero and the highlight
// is derived from whichever field matched.
func (r *articleRepository) SearchSubstring(ctx context.Context, ownerID, query string, limit int) ([]*models.SearchResult, error) {
	span, ctx := observability.StartQuerySpan(ctx, "search_substring", "articles")
	defer span.End()
	defer observability.TrackQuery("search_substring", "articles")()

	var results []*models.SearchResult
	like := "%" + escapeLike(query) + "%"
	err := r.withAuthor(r.db.WithContext(ctx)).
		Where("articles.user_id = ?", ownerID).
		Where("articles.title ILIKE ? OR articles.excerpt ILIKE ? OR articles.content ILIKE ?", like, like, like).
		Order("articles.created_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	for _, res := range results {
		res.Rank = 0
		res.Highlight = substringHighlight(&res.Article, query)
	}
	return results, nil
}

// escapeLike neutralizes LIKE metacharacters so a query like "100%" matches
// the literal text instead of acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// substringHighlight picks a human-readable snippet for a fallback match:
// the title when it matched, otherwise the excerpt, otherwise a fixed-length
// content prefix.
func substringHighlight(a *models.Article, query string) string {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(a.Title), q) {
		return a.Title
	}
	if a.Excerpt != "" && strings.Contains(strings.ToLower(a.Excerpt), q) {
		return a.Excerpt
	}
	runes := []rune(a.Content)
	if len(runes) <= substringHighlightLen {
		return a.Content
	}
	return string(runes[:substringHighlightLen]) + "…"
}

func (r *articleRepository) AppendStatusHistory(ctx context.Context, entry *models.ArticleStatusHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) ListStatusHistory(ctx context.Context, articleID string) ([]models.ArticleStatusHistory, error) {
	var entries []models.ArticleStatusHistory
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
