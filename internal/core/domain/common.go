package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Actor is the acting user supplied by the caller's identity layer.
type Actor struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// SameDayOrBefore reports whether a falls on or before b's calendar day (UTC).
func SameDayOrBefore(a, b time.Time) bool {
	return !TruncateDay(a).After(TruncateDay(b))
}

// TruncateDay returns the UTC midnight of t's calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithinDays reports whether t falls on a calendar day in [start, end] (UTC, inclusive).
func WithinDays(t, start, end time.Time) bool {
	return SameDayOrBefore(start, t) && SameDayOrBefore(t, end)
}
