package database

import (
	"testing"

	modelspkg "inkwell/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesStatusHistory(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.ArticleStatusHistory); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include ArticleStatusHistory")
}

func TestPersistentModels_IncludesTagJoinTable(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.ArticleTag); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include ArticleTag")
}
