package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags. ?search= narrows by name, ?counts=true
// annotates each tag with its published article count.
func (s *Server) GetTags(c *fiber.Ctx) error {
	if q := c.Query("search"); q != "" {
		tags, err := s.tagService.SearchTags(c.Context(), q, c.QueryInt("limit", 20))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(tags)
	}

	if c.QueryBool("counts", false) {
		tags, err := s.tagService.ListTagsWithCounts(c.Context())
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(tags)
	}

	tags, err := s.tagService.ListTags(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/tags. Tag names are globally unique, so
// creating an existing name returns the existing tag.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(c.Context(), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// SearchTags handles GET /api/tags/search?q=...
func (s *Server) SearchTags(c *fiber.Ctx) error {
	tags, err := s.tagService.SearchTags(c.Context(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.DeleteTag(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetArticleTags handles GET /api/articles/:id/tags
func (s *Server) GetArticleTags(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	tags, err := s.tagService.ListArticleTags(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// ReplaceArticleTags handles POST /api/articles/:id/tags, atomically replacing
// the article's full tag set.
func (s *Server) ReplaceArticleTags(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tags, err := s.tagService.ReplaceArticleTags(c.Context(), currentUserID(c), id, req.Tags)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}
