// Package service holds the business logic between HTTP handlers and repositories.
package service

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// ArticleService implements article business logic: ownership checks, the
// status state machine, tag-set handling and two-tier search.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	tagRepo     repository.TagRepository
}

type CreateArticleInput struct {
	UserID  string
	Title   string
	Content string
	Excerpt string
	Status  string // "draft" (default) or "published"
	Tags    []string
}

type UpdateArticleInput struct {
	UserID    string
	ArticleID string
	Title     *string
	Content   *string
	Excerpt   *string
	Status    *string
	Published *bool    // alternate spelling of Status; true=published, false=draft
	Tags      []string // nil leaves tags alone, empty clears them
	Reason    string   // optional audit note for status changes
}

type ListArticlesInput struct {
	UserID string
	Status string // "", "draft" or "published"
	Limit  int
	Offset int
}

type SearchArticlesInput struct {
	UserID string
	Query  string
	Limit  int
}

func NewArticleService(articleRepo repository.ArticleRepository, tagRepo repository.TagRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
	}
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if err := validation.ValidateArticleTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateArticleContent(in.Content); err != nil {
		return nil, err
	}
	if err := validation.ValidateArticleExcerpt(in.Excerpt); err != nil {
		return nil, err
	}
	if err := validation.ValidateTagNames(in.Tags); err != nil {
		return nil, err
	}

	status := models.StatusDraft
	if in.Status != "" {
		parsed, err := models.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if parsed == models.StatusArchived {
			return nil, models.NewValidationError("New articles cannot start archived")
		}
		status = parsed
	}

	article := &models.Article{
		UserID:  in.UserID,
		Title:   in.Title,
		Content: in.Content,
		Excerpt: in.Excerpt,
	}

	// Creating directly as published walks the draft->published edge, with
	// the same preconditions and audit record as a later publish would have.
	if status == models.StatusPublished {
		if err := models.ValidateStatusTransition(models.StatusDraft, models.StatusPublished, article); err != nil {
			return nil, err
		}
		article.Published = true
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	if article.Published {
		entry := &models.ArticleStatusHistory{
			ArticleID:  article.ID,
			FromStatus: models.StatusDraft,
			ToStatus:   models.StatusPublished,
			ChangedBy:  in.UserID,
			Reason:     "published at creation",
		}
		if err := s.articleRepo.AppendStatusHistory(ctx, entry); err != nil {
			return nil, err
		}
		observability.RecordStatusTransition(string(models.StatusDraft), string(models.StatusPublished))
	}
	observability.ArticlesCreatedTotal.WithLabelValues(string(article.Status())).Inc()

	if len(in.Tags) > 0 {
		tags, err := s.tagRepo.ReplaceForArticle(ctx, article.ID, in.Tags)
		if err != nil {
			return nil, err
		}
		article.Tags = tags
	}

	return s.GetArticle(ctx, in.UserID, article.ID)
}

// GetArticle returns the article only to its owner. Articles belonging to
// another user are reported as not found, never as forbidden, so their
// existence is not leaked.
func (s *ArticleService) GetArticle(ctx context.Context, userID, articleID string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		return nil, models.NewNotFoundError("Article", articleID)
	}

	tags, err := s.tagRepo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	article.Tags = tags
	return article, nil
}

// UpdateArticle applies a partial patch. Unlike reads, mutations report
// a foreign article as forbidden rather than hiding it.
func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	if in.Tags != nil {
		trimmed := make([]string, 0, len(in.Tags))
		for _, name := range in.Tags {
			trimmed = append(trimmed, strings.TrimSpace(name))
		}
		if err := validation.ValidateTagNames(trimmed); err != nil {
			return nil, err
		}
		in.Tags = trimmed
	}

	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != in.UserID {
		return nil, models.NewForbiddenError("You do not own this article")
	}

	if in.Title != nil {
		if err := validation.ValidateArticleTitle(*in.Title); err != nil {
			return nil, err
		}
		article.Title = *in.Title
	}
	if in.Content != nil {
		if err := validation.ValidateArticleContent(*in.Content); err != nil {
			return nil, err
		}
		article.Content = *in.Content
	}
	if in.Excerpt != nil {
		if err := validation.ValidateArticleExcerpt(*in.Excerpt); err != nil {
			return nil, err
		}
		article.Excerpt = *in.Excerpt
	}

	upd := repository.ArticleUpdate{
		Title:   in.Title,
		Content: in.Content,
		Excerpt: in.Excerpt,
	}

	fromStatus := models.StatusFromPublished(article.Published)
	toStatus := fromStatus
	switch {
	case in.Status != nil:
		parsed, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if in.Published != nil && *in.Published != parsed.Published() {
			return nil, models.NewValidationError("Fields status and published disagree")
		}
		toStatus = parsed
	case in.Published != nil:
		toStatus = models.StatusFromPublished(*in.Published)
	}

	if toStatus != fromStatus {
		// Transition preconditions run against the patched article, so a
		// single request may both fill in the title and publish.
		if err := models.ValidateStatusTransition(fromStatus, toStatus, article); err != nil {
			return nil, err
		}
		published := toStatus.Published()
		upd.Published = &published
	}

	if err := s.articleRepo.Update(ctx, in.ArticleID, upd); err != nil {
		return nil, err
	}

	if toStatus != fromStatus {
		entry := &models.ArticleStatusHistory{
			ArticleID:  in.ArticleID,
			FromStatus: fromStatus,
			ToStatus:   toStatus,
			ChangedBy:  in.UserID,
			Reason:     in.Reason,
		}
		if err := s.articleRepo.AppendStatusHistory(ctx, entry); err != nil {
			return nil, err
		}
		observability.RecordStatusTransition(string(fromStatus), string(toStatus))
	}

	if in.Tags != nil {
		if _, err := s.tagRepo.ReplaceForArticle(ctx, in.ArticleID, in.Tags); err != nil {
			return nil, err
		}
	}

	return s.GetArticle(ctx, in.UserID, in.ArticleID)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, userID, articleID string) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article.UserID != userID {
		return models.NewForbiddenError("You do not own this article")
	}
	return s.articleRepo.Delete(ctx, articleID)
}

func (s *ArticleService) ListArticles(ctx context.Context, in ListArticlesInput) ([]*models.Article, int64, error) {
	var published *bool
	if in.Status != "" {
		parsed, err := models.ParseStatus(in.Status)
		if err != nil {
			return nil, 0, err
		}
		if parsed == models.StatusArchived {
			return nil, 0, models.NewValidationError("Archived articles cannot be filtered independently; filter by draft")
		}
		p := parsed.Published()
		published = &p
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	articles, err := s.articleRepo.ListByOwner(ctx, in.UserID, published, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.articleRepo.CountByOwner(ctx, in.UserID, published)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachTags(ctx, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// SearchArticles runs the two-tier search: the ranked full-text tier first,
// and the substring fallback only when the first tier matched nothing.
func (s *ArticleService) SearchArticles(ctx context.Context, in SearchArticlesInput) ([]*models.SearchResult, error) {
	query, err := validation.NormalizeSearchQuery(in.Query)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > validation.MaxSearchLimit {
		return nil, models.NewValidationError(fmt.Sprintf("Search limit cannot exceed %d", validation.MaxSearchLimit))
	}

	span, ctx := observability.NewSpan(ctx, "article.search")
	defer span.End()

	results, err := s.articleRepo.SearchRank(ctx, in.UserID, query, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	tier := "rank"
	if len(results) == 0 {
		results, err = s.articleRepo.SearchSubstring(ctx, in.UserID, query, limit)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		tier = "substring"
		if len(results) == 0 {
			tier = "none"
		}
	}
	observability.RecordSearchTier(tier)

	articles := make([]*models.Article, len(results))
	for i := range results {
		articles[i] = &results[i].Article
	}
	if err := s.attachTags(ctx, articles); err != nil {
		return nil, err
	}
	return results, nil
}

// GetStatusHistory returns the article's audit trail, oldest entry first.
func (s *ArticleService) GetStatusHistory(ctx context.Context, userID, articleID string) ([]models.ArticleStatusHistory, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		return nil, models.NewNotFoundError("Article", articleID)
	}
	return s.articleRepo.ListStatusHistory(ctx, articleID)
}

func (s *ArticleService) attachTags(ctx context.Context, articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	byArticle, err := s.tagRepo.ListByArticles(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range articles {
		if tags, ok := byArticle[a.ID]; ok {
			a.Tags = tags
		} else {
			a.Tags = []models.Tag{}
		}
	}
	return nil
}
