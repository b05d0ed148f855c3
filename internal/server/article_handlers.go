package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Excerpt string   `json:"excerpt"`
		Status  string   `json:"status"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.CreateArticle(c.Context(), service.CreateArticleInput{
		UserID:  currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Status:  req.Status,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetArticles handles GET /api/articles?status=...&limit=...&offset=...
func (s *Server) GetArticles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	articles, total, err := s.articleService.ListArticles(c.Context(), service.ListArticlesInput{
		UserID: currentUserID(c),
		Status: c.Query("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"articles": articles,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// GetArticle handles GET /api/articles/:id
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.GetArticle(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(article)
}

// UpdateArticle handles PUT /api/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	// Status changes come as either a status name or a published flag;
	// a nil tags field leaves the tag set alone.
	var req struct {
		Title     *string  `json:"title"`
		Content   *string  `json:"content"`
		Excerpt   *string  `json:"excerpt"`
		Status    *string  `json:"status"`
		Published *bool    `json:"published"`
		Tags      []string `json:"tags"`
		Reason    string   `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:    currentUserID(c),
		ArticleID: id,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Status:    req.Status,
		Published: req.Published,
		Tags:      req.Tags,
		Reason:    req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.DeleteArticle(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SearchArticles handles GET /api/articles/search?q=...
func (s *Server) SearchArticles(c *fiber.Ctx) error {
	results, err := s.articleService.SearchArticles(c.Context(), service.SearchArticlesInput{
		UserID: currentUserID(c),
		Query:  c.Query("q"),
		Limit:  c.QueryInt("limit", 20),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"query":   c.Query("q"),
		"results": results,
		"total":   len(results),
	})
}

// GetStatusHistory handles GET /api/articles/:id/status-history
func (s *Server) GetStatusHistory(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	entries, err := s.articleService.GetStatusHistory(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}
