package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Sheet is an uploaded CSV and its metadata.
type Sheet struct {
	ID           string
	Name         string
	Content      string
	CreatedAt    time.Time
	LastOpenedAt time.Time
}

// SheetSummary is a Sheet without its content, for listings.
type SheetSummary struct {
	ID           string
	Name         string
	Size         int
	CreatedAt    time.Time
	LastOpenedAt time.Time
}
