package entity

import "time"

// Check mirrors the `url_checks` table. Nil fields were absent on the page.
type Check struct {
	ID          int64
	URLID       int64
	StatusCode  *int
	H1          *string
	Title       *string
	Description *string
	CreatedAt   time.Time
}

// PageSnapshot is what a single fetch of a page yields.
type PageSnapshot struct {
	StatusCode  int
	Title       *string
	H1          *string
	Description *string
}
