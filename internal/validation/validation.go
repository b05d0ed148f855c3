// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
)

const (
	// MinPasswordLen matches the registration rule of the public API.
	MinPasswordLen = 6
	// MaxPasswordLen prevents unreasonable inputs reaching bcrypt.
	MaxPasswordLen = 128
	// MaxSearchQueryLen bounds search input length in characters.
	MaxSearchQueryLen = 100
	// MaxSearchLimit bounds how many search results one call may request.
	MaxSearchLimit = 50
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Letters, digits, CJK ideographs, spaces and hyphens only.
	tagNameRegex = regexp.MustCompile(`^[\w\x{4e00}-\x{9fa5}\s-]+$`)
)

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("Invalid email format")
	}
	if len(email) > 254 {
		return models.NewValidationError("Email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return models.NewValidationError(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		return models.NewValidationError(fmt.Sprintf("Password must not exceed %d characters", MaxPasswordLen))
	}
	return nil
}

// ValidateTagName checks a single tag name: non-blank, at most
// MaxTagNameLen characters, restricted charset.
func ValidateTagName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.NewValidationError("Tag name must not be blank")
	}
	if utf8.RuneCountInString(name) > models.MaxTagNameLen {
		return models.NewValidationError(fmt.Sprintf("Tag name must not exceed %d characters", models.MaxTagNameLen))
	}
	if !tagNameRegex.MatchString(trimmed) {
		return models.NewValidationError("Tag name may only contain letters, digits, CJK characters, spaces and hyphens")
	}
	return nil
}

// ValidateTagNames checks a full tag set for an article.
func ValidateTagNames(names []string) error {
	if len(names) > models.MaxTagsPerArticle {
		return models.NewValidationError(fmt.Sprintf("An article may carry at most %d tags", models.MaxTagsPerArticle))
	}
	for _, name := range names {
		if err := ValidateTagName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateArticleTitle checks presence and length of an article title.
func ValidateArticleTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title must not be empty")
	}
	if len(title) > models.MaxTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title must not exceed %d characters", models.MaxTitleLen))
	}
	return nil
}

// ValidateArticleContent checks presence of article content.
func ValidateArticleContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content must not be empty")
	}
	return nil
}

// ValidateArticleExcerpt checks the optional excerpt length.
func ValidateArticleExcerpt(excerpt string) error {
	if len(excerpt) > models.MaxExcerptLen {
		return models.NewValidationError(fmt.Sprintf("Excerpt must not exceed %d characters", models.MaxExcerptLen))
	}
	return nil
}

// NormalizeSearchQuery trims a raw search query and validates its
// length. The returned string is the query both search tiers receive.
func NormalizeSearchQuery(q string) (string, error) {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return "", models.NewValidationError("Search query must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxSearchQueryLen {
		return "", models.NewValidationError(fmt.Sprintf("Search query must not exceed %d characters", MaxSearchQueryLen))
	}
	return trimmed, nil
}
