package models

import (
	"fmt"
	"strings"
)

// ArticleStatus is the logical lifecycle state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// ParseStatus converts a request string into an ArticleStatus.
func ParseStatus(s string) (ArticleStatus, error) {
	switch ArticleStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", NewValidationError(fmt.Sprintf("Unknown article status %q", s))
	}
}

// StatusFromPublished maps the persisted boolean onto a logical status.
func StatusFromPublished(published bool) ArticleStatus {
	if published {
		return StatusPublished
	}
	return StatusDraft
}

// Published reports whether the status persists as published=true.
func (s ArticleStatus) Published() bool {
	return s == StatusPublished
}

// statusTransition is one edge of the status state machine. A nil
// validate func means the transition has no preconditions.
type statusTransition struct {
	from     ArticleStatus
	to       ArticleStatus
	validate func(a *Article) error
}

// statusTransitions enumerates every allowed transition. Absent edges
// (notably archived -> published) are rejected outright.
var statusTransitions = []statusTransition{
	{from: StatusDraft, to: StatusPublished, validate: validatePublishable},
	{from: StatusPublished, to: StatusDraft},
	{from: StatusPublished, to: StatusArchived},
	{from: StatusDraft, to: StatusArchived},
	{from: StatusArchived, to: StatusDraft},
}

func validatePublishable(a *Article) error {
	if strings.TrimSpace(a.Title) == "" {
		return NewValidationError("Article title must not be empty")
	}
	if strings.TrimSpace(a.Content) == "" {
		return NewValidationError("Article content must not be empty")
	}
	if len(a.Title) > MaxTitleLen {
		return NewValidationError(fmt.Sprintf("Article title must not exceed %d characters", MaxTitleLen))
	}
	return nil
}

// ValidateStatusTransition checks whether moving article a from one
// logical status to another is allowed. It returns nil when the change
// may be persisted, an INVALID_TRANSITION error when the edge is not in
// the state machine, and a VALIDATION_ERROR when a precondition fails.
func ValidateStatusTransition(from, to ArticleStatus, a *Article) error {
	for _, t := range statusTransitions {
		if t.from != from || t.to != to {
			continue
		}
		if t.validate != nil && a != nil {
			return t.validate(a)
		}
		return nil
	}
	return NewInvalidTransitionError(from, to)
}

// CanPublish reports whether the article currently satisfies the
// draft -> published preconditions, with the blocking reason if not.
func CanPublish(a *Article) (bool, string) {
	if err := ValidateStatusTransition(StatusDraft, StatusPublished, a); err != nil {
		return false, err.Error()
	}
	return true, ""
}
