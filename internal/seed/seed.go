package seed

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	ArticlesPerUser int
	MaxDays         int
	ShouldClean     bool
	SkipBcrypt      bool
	DryRun          bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 5
	}
	if opts.ArticlesPerUser <= 0 {
		opts.ArticlesPerUser = 8
	}
	log.Printf("Seeding %d users with ~%d articles each...", opts.NumUsers, opts.ArticlesPerUser)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		for j := 0; j < opts.ArticlesPerUser; j++ {
			article, err := factory.CreateArticle(user)
			if err != nil {
				return fmt.Errorf("failed to create article: %w", err)
			}
			if names := factory.RandomTagNames(factory.rng.Intn(4)); len(names) > 0 {
				if err := factory.AttachTags(article, names); err != nil {
					return fmt.Errorf("failed to attach tags: %w", err)
				}
			}
		}
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE article_status_histories, article_tags, tags, articles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
