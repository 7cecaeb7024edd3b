package entity

import "time"

// URL mirrors the `urls` table. Name is always "scheme://host".
type URL struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// URLSummary is a URL row joined with its most recent check, if any.
type URLSummary struct {
	URL
	LastCheckedAt  *time.Time
	LastStatusCode *int
}

// URLDetail is a URL with its checks, newest first.
type URLDetail struct {
	URL    URL
	Checks []Check
}
