package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type Segment struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Membership relates one user to one segment. The (UserID, SegmentID) pair is unique.
type Membership struct {
	UserID     int64     `json:"user_id"`
	SegmentID  int64     `json:"segment_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// CreateSegmentInput carries the fields accepted when a segment is created.
// A nil AutoAssignPercent means no automatic assignment.
type CreateSegmentInput struct {
	Slug              string
	Name              string
	Description       *string
	AutoAssignPercent *int
}

// UpdateSegmentInput fields are applied only when non-nil. Name is also ignored
// when empty; a Description pointing at "" clears the stored description.
type UpdateSegmentInput struct {
	Name              *string
	Description       *string
	AutoAssignPercent *int
}

// MembershipReport is the outcome of a bulk add or remove. Per-slug failures are
// collected in Errors and never abort the batch.
type MembershipReport struct {
	Added   []string
	Removed []string
	Errors  []error
}

type SegmentDetails struct {
	Segment
	MemberCount int
}
