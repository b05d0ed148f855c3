package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTagsPerArticle bounds the tag set attached to a single article.
const MaxTagsPerArticle = 10

// MaxTagNameLen bounds tag name length in characters.
const MaxTagNameLen = 100

// Tag is a label shared across articles. Tags are created lazily when
// first attached and are never owned by a single article.
type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ArticleTag is the article/tag association row. The join table is
// managed explicitly so the full-set replace can run as one transaction.
type ArticleTag struct {
	ArticleID string `gorm:"type:uuid;primaryKey" json:"article_id"`
	TagID     string `gorm:"type:uuid;primaryKey" json:"tag_id"`
}

// TagWithCount is a tag annotated with how many published articles
// reference it.
type TagWithCount struct {
	Tag
	ArticleCount int64 `gorm:"->" json:"article_count"`
}
