package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// TagService implements tag business logic, including the transactional
// replacement of an article's tag set.
type TagService struct {
	tagRepo     repository.TagRepository
	articleRepo repository.ArticleRepository
}

func NewTagService(tagRepo repository.TagRepository, articleRepo repository.ArticleRepository) *TagService {
	return &TagService{
		tagRepo:     tagRepo,
		articleRepo: articleRepo,
	}
}

// CreateTag gets or creates a tag by name; creating an existing name is
// idempotent and returns the existing tag.
func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateTagName(name); err != nil {
		return nil, err
	}
	return s.tagRepo.GetOrCreate(ctx, name)
}

// ReplaceArticleTags validates the incoming tag names and atomically replaces
// the article's tag set. Writing tags on someone else's article is forbidden,
// like any other article mutation.
func (s *TagService) ReplaceArticleTags(ctx context.Context, userID, articleID string, names []string) ([]models.Tag, error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		trimmed = append(trimmed, strings.TrimSpace(name))
	}
	if err := validation.ValidateTagNames(trimmed); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		return nil, models.NewForbiddenError("You do not own this article")
	}

	return s.tagRepo.ReplaceForArticle(ctx, articleID, trimmed)
}

// ListArticleTags returns the article's tags in name order, owner only.
func (s *TagService) ListArticleTags(ctx context.Context, userID, articleID string) ([]models.Tag, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		return nil, models.NewNotFoundError("Article", articleID)
	}
	return s.tagRepo.ListByArticle(ctx, articleID)
}

// ListTags returns all tags in name order.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.All(ctx)
}

// ListTagsWithCounts returns all tags annotated with their published article counts.
func (s *TagService) ListTagsWithCounts(ctx context.Context) ([]models.TagWithCount, error) {
	return s.tagRepo.WithCounts(ctx)
}

// SearchTags returns tags whose names contain the query, case-insensitively.
func (s *TagService) SearchTags(ctx context.Context, query string, limit int) ([]models.Tag, error) {
	normalized, err := validation.NormalizeSearchQuery(query)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > validation.MaxSearchLimit {
		limit = validation.MaxSearchLimit
	}
	return s.tagRepo.Search(ctx, normalized, limit)
}

// DeleteTag removes an unused tag. Tags still attached to articles are a conflict.
func (s *TagService) DeleteTag(ctx context.Context, id string) error {
	return s.tagRepo.Delete(ctx, id)
}
