package model

import "time"

// Service is a consulting service shown on the public site.
type Service struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item (course, book, template) shown on the public site.
type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	PriceCents int64     `json:"price_cents"`
	Currency   string    `json:"currency"`
	URL        string    `json:"url"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}
