package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article limits enforced at creation and on status transitions.
const (
	MaxTitleLen   = 500
	MaxExcerptLen = 1000
)

// Article represents a blog article owned by exactly one user.
// The persisted status signal is the published flag; the logical
// three-state status (draft/published/archived) is derived at the
// application layer, see ArticleStatus.
type Article struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Excerpt   string    `gorm:"size:1000" json:"excerpt,omitempty"`
	Published bool      `gorm:"not null;default:false;index" json:"published"`
	CreatedAt time.Time `gorm:"index:,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorName and AuthorEmail are not persisted; joined at query time.
	AuthorName  string `gorm:"->;-:migration" json:"author_name,omitempty"`
	AuthorEmail string `gorm:"->;-:migration" json:"author_email,omitempty"`

	// Tags is populated by the tag repository, not by association autoload.
	Tags []Tag `gorm:"-" json:"tags"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *Article) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Status derives the logical status from the persisted published flag.
// Archived articles persist as unpublished; the distinction lives in the
// status history log only.
func (a *Article) Status() ArticleStatus {
	return StatusFromPublished(a.Published)
}

// SearchResult is an article row enriched with relevance rank and a
// highlight snippet. Rank comes from ts_rank in tier-1 search and is a
// constant zero for tier-2 substring fallback matches.
type SearchResult struct {
	Article
	Rank      float64 `gorm:"->" json:"rank"`
	Highlight string  `gorm:"->" json:"highlight,omitempty"`
}

// ArticleStatusHistory is an append-only audit record of a logical
// status transition.
type ArticleStatusHistory struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID  string        `gorm:"type:uuid;not null;index" json:"article_id"`
	FromStatus ArticleStatus `gorm:"size:16;not null" json:"from_status"`
	ToStatus   ArticleStatus `gorm:"size:16;not null" json:"to_status"`
	ChangedBy  string        `gorm:"type:uuid;not null" json:"changed_by"`
	Reason     string        `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (h *ArticleStatusHistory) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
