package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReplaceArticleTags(t *testing.T) {
	t.Run("Tag set replaced", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		tagRepo := new(MockTagRepository)
		articleRepo.On("GetByID", mock.Anything, testArticleID).Return(ownedArticle(), nil)
		tagRepo.On("ReplaceForArticle", mock.Anything, testArticleID, []string{"go", "fiber"}).
			Return([]models.Tag{{ID: "t1", Name: "fiber"}, {ID: "t2", Name: "go"}}, nil)

		app, s := newArticleTestApp(articleRepo, tagRepo)
		app.Post("/articles/:id/tags", s.ReplaceArticleTags)

		body, _ := json.Marshal(map[string]any{"tags": []string{" go ", "fiber"}})
		req := httptest.NewRequest(http.MethodPost, "/articles/"+testArticleID+"/tags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tags []models.Tag
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tags))
		assert.Len(t, tags, 2)
		tagRepo.AssertExpectations(t)
	})

	t.Run("Too many tags yields 400", func(t *testing.T) {
		app, s := newArticleTestApp(new(MockArticleRepository), new(MockTagRepository))
		app.Post("/articles/:id/tags", s.ReplaceArticleTags)

		names := make([]string, models.MaxTagsPerArticle+1)
		for i := range names {
			names[i] = "tag-" + string(rune('a'+i))
		}
		body, _ := json.Marshal(map[string]any{"tags": names})
		req := httptest.NewRequest(http.MethodPost, "/articles/"+testArticleID+"/tags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Foreign article yields 403", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		foreign := ownedArticle()
		foreign.UserID = otherUserID
		articleRepo.On("GetByID", mock.Anything, testArticleID).Return(foreign, nil)

		app, s := newArticleTestApp(articleRepo, new(MockTagRepository))
		app.Post("/articles/:id/tags", s.ReplaceArticleTags)

		body, _ := json.Marshal(map[string]any{"tags": []string{"go"}})
		req := httptest.NewRequest(http.MethodPost, "/articles/"+testArticleID+"/tags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestGetTags(t *testing.T) {
	t.Run("Plain listing", func(t *testing.T) {
		tagRepo := new(MockTagRepository)
		tagRepo.On("All", mock.Anything).
			Return([]models.Tag{{ID: "t1", Name: "go"}}, nil)

		app, s := newArticleTestApp(new(MockArticleRepository), tagRepo)
		app.Get("/tags", s.GetTags)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tags", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("With counts", func(t *testing.T) {
		tagRepo := new(MockTagRepository)
		tagRepo.On("WithCounts", mock.Anything).
			Return([]models.TagWithCount{{Tag: models.Tag{ID: "t1", Name: "go"}, ArticleCount: 4}}, nil)

		app, s := newArticleTestApp(new(MockArticleRepository), tagRepo)
		app.Get("/tags", s.GetTags)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tags?counts=true", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tags []models.TagWithCount
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tags))
		require.Len(t, tags, 1)
		assert.Equal(t, int64(4), tags[0].ArticleCount)
	})
}

func TestCreateTag(t *testing.T) {
	t.Run("Tag created", func(t *testing.T) {
		tagRepo := new(MockTagRepository)
		tagRepo.On("GetOrCreate", mock.Anything, "go").
			Return(&models.Tag{ID: "t1", Name: "go"}, nil)

		app, s := newArticleTestApp(new(MockArticleRepository), tagRepo)
		app.Post("/tags", s.CreateTag)

		body, _ := json.Marshal(map[string]any{"name": " go "})
		req := httptest.NewRequest(http.MethodPost, "/tags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var tag models.Tag
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tag))
		assert.Equal(t, "go", tag.Name)
	})

	t.Run("Invalid name yields 400", func(t *testing.T) {
		app, s := newArticleTestApp(new(MockArticleRepository), new(MockTagRepository))
		app.Post("/tags", s.CreateTag)

		body, _ := json.Marshal(map[string]any{"name": "no/slashes"})
		req := httptest.NewRequest(http.MethodPost, "/tags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteTag(t *testing.T) {
	const tagID = "33333333-3333-3333-3333-333333333333"

	t.Run("Unused tag removed", func(t *testing.T) {
		tagRepo := new(MockTagRepository)
		tagRepo.On("Delete", mock.Anything, tagID).Return(nil)

		app, s := newArticleTestApp(new(MockArticleRepository), tagRepo)
		app.Delete("/tags/:id", s.DeleteTag)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/tags/"+tagID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Attached tag yields 409", func(t *testing.T) {
		tagRepo := new(MockTagRepository)
		tagRepo.On("Delete", mock.Anything, tagID).
			Return(models.NewConflictError("Tag is still attached to articles"))

		app, s := newArticleTestApp(new(MockArticleRepository), tagRepo)
		app.Delete("/tags/:id", s.DeleteTag)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/tags/"+tagID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
