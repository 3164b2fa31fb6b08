package domain

import "time"

// Tag labels recipes. Name, color and slug are each unique.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}
