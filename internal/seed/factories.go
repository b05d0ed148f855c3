// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser persists a sample author account. Every seeded account uses
// the password "password123" so demo logins work.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email: gofakeit.Email(),
		Name:  gofakeit.Name(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Name, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateArticle persists a sample article for the given user. Roughly two
// thirds of seeded articles are published, the rest stay drafts.
func (f *Factory) CreateArticle(user *models.User, overrides ...func(*models.Article)) (*models.Article, error) {
	article := &models.Article{
		UserID:    user.ID,
		Title:     strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(6)+3), "."),
		Content:   gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Excerpt:   gofakeit.Sentence(12),
		Published: f.rng.Intn(3) > 0,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	article.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(article)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateArticle: %q for %s", article.Title, user.Email)
		return article, nil
	}

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}

	if article.Published {
		entry := &models.ArticleStatusHistory{
			ArticleID:  article.ID,
			FromStatus: models.StatusDraft,
			ToStatus:   models.StatusPublished,
			ChangedBy:  user.ID,
			Reason:     "seeded as published",
		}
		if err := f.db.Create(entry).Error; err != nil {
			return nil, err
		}
	}
	return article, nil
}

// AttachTags gets-or-creates the named tags and links them to the article.
func (f *Factory) AttachTags(article *models.Article, names []string) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] AttachTags: %v onto %q", names, article.Title)
		return nil
	}

	for _, name := range names {
		var tag models.Tag
		err := f.db.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name}
			if err := f.db.Create(&tag).Error; err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
		} else if err != nil {
			return err
		}

		link := models.ArticleTag{ArticleID: article.ID, TagID: tag.ID}
		if err := f.db.Create(&link).Error; err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// tagPool is the vocabulary seeded articles draw their tags from.
var tagPool = []string{
	"golang", "postgres", "fiber", "devops", "linux", "homelab",
	"writing", "travel", "cooking", "books", "music", "photography",
	"productivity", "career", "open source", "self-hosting",
}

// RandomTagNames picks up to n distinct names from the tag pool.
func (f *Factory) RandomTagNames(n int) []string {
	if n > len(tagPool) {
		n = len(tagPool)
	}
	picked := f.rng.Perm(len(tagPool))[:n]
	names := make([]string, n)
	for i, idx := range picked {
		names[i] = tagPool[idx]
	}
	return names
}
