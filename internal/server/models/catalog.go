package models

import "time"

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	CategoryID      *string   `json:"category_id,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Embedding       Vector    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// EmbeddingText is the text fed to the embedding provider.
func (b *Book) EmbeddingText() string {
	return b.Title + " " + b.Author
}

// Member is the borrower identity used by circulation.
type Member struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MembershipCode string    `json:"membership_code"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListOptions bounds and filters list queries.
type ListOptions struct {
	Query      string
	CategoryID string
	Limit      int
	Offset     int
}
