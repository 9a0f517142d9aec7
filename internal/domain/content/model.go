package content

import (
	"time"

	"github.com/google/uuid"
)

// Content kinds.
const (
	KindBlog       = "blog"
	KindComparison = "comparison"
	KindLanding    = "landing"
)

// Item maps to the content_items table. Unpublished items are only visible to
// admins.
type Item struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Kind        string     `db:"kind" json:"kind"`
	Body        string     `db:"body" json:"body"`
	Excerpt     *string    `db:"excerpt" json:"excerpt,omitempty"`
	Tags        []string   `db:"tags" json:"tags"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
