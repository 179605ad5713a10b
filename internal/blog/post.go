package blog

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPostNotFound            = errors.New("blog post not found")
	ErrPostTitleOrContentEmpty = errors.New("blog post title or content empty")
	ErrInvalidSlug             = errors.New("blog post slug invalid")
	ErrSlugTaken               = errors.New("blog post slug already taken")
)

const maxSlugLen = 200

type Post struct {
	ID        int       `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize trims the input fields, derives the slug from the title when
// missing, and validates the result.
func (p *Post) Normalize() error {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	p.Author = strings.TrimSpace(p.Author)

	if p.Title == "" || p.Content == "" {
		return ErrPostTitleOrContentEmpty
	}

	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}

	return nil
}

// Slugify lowercases s and joins its ascii letter and digit runs with dashes.
func Slugify(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := sb.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}
