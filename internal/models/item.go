package models

import "time"

// Item is a single to-do task. UserID is never serialized; ownership is implied by the caller.
type Item struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	Done      bool      `json:"done"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemFilter selects a subset of a user's items.
type ItemFilter string

const (
	FilterAll    ItemFilter = "all"
	FilterActive ItemFilter = "active"
	FilterDone   ItemFilter = "done"
)

// ParseItemFilter maps the query value to a filter. Empty means all.
func ParseItemFilter(s string) (ItemFilter, bool) {
	switch ItemFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActive:
		return FilterActive, true
	case FilterDone, "completed":
		return FilterDone, true
	}
	return "", false
}
