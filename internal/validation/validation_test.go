package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "user@example.com", false},
		{"Valid with plus", "user+tag@example.co.uk", false},
		{"Missing at", "userexample.com", true},
		{"Missing domain", "user@", true},
		{"Whitespace", "us er@example.com", true},
		{"Too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.Error(t, ValidatePassword(strings.Repeat("a", 129)))
}

func TestValidateTagName(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"Simple", "golang", false},
		{"With hyphen and space", "web dev-notes", false},
		{"CJK", "技术笔记", false},
		{"Blank", "   ", true},
		{"Punctuation", "c++!", true},
		{"Exactly 100 chars", strings.Repeat("a", 100), false},
		{"101 chars", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTagName(tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTagNames(t *testing.T) {
	ten := make([]string, 10)
	for i := range ten {
		ten[i] = "tag" + strings.Repeat("a", i+1)
	}
	assert.NoError(t, ValidateTagNames(ten))

	eleven := append(ten, "one-too-many")
	assert.Error(t, ValidateTagNames(eleven))
}

func TestValidateArticleFields(t *testing.T) {
	assert.NoError(t, ValidateArticleTitle(strings.Repeat("t", 500)))
	assert.Error(t, ValidateArticleTitle(strings.Repeat("t", 501)))
	assert.Error(t, ValidateArticleTitle(" "))

	assert.Error(t, ValidateArticleContent(""))
	assert.NoError(t, ValidateArticleContent("# hello"))

	assert.NoError(t, ValidateArticleExcerpt(strings.Repeat("e", 1000)))
	assert.Error(t, ValidateArticleExcerpt(strings.Repeat("e", 1001)))
}

func TestNormalizeSearchQuery(t *testing.T) {
	q, err := NormalizeSearchQuery("  hello world  ")
	assert.NoError(t, err)
	assert.Equal(t, "hello world", q)

	_, err = NormalizeSearchQuery("   ")
	assert.Error(t, err)

	_, err = NormalizeSearchQuery(strings.Repeat("q", 101))
	assert.Error(t, err)
}
