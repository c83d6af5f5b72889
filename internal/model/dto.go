package model

import (
	"encoding/json"
	"time"
)

type ErrorDTO struct {
	Error string `json:"error"`
}

type SegmentCreateDTO struct {
	Slug              string       `json:"slug"`
	Name              string       `json:"name,omitempty"`
	Description       *string      `json:"description,omitempty"`
	AutoAssignPercent *json.Number `json:"auto_assign_percent,omitempty" swaggertype:"integer"`
}

// SegmentUpdateDTO keeps description raw so that an explicit null can be told apart
// from an absent key.
type SegmentUpdateDTO struct {
	Name              *string         `json:"name,omitempty"`
	Description       json.RawMessage `json:"description,omitempty" swaggertype:"string"`
	AutoAssignPercent *json.Number    `json:"auto_assign_percent,omitempty" swaggertype:"integer"`
}

type SegmentCreatedDTO struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type SegmentUpdatedDTO struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SegmentDetailsDTO struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SegmentShortDTO struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type SegmentMembersDTO struct {
	Slug    string       `json:"slug"`
	UserIDs []int64      `json:"user_ids"`
	Members []Membership `json:"members"`
}

type UserSegmentsDTO struct {
	UserID   int64             `json:"user_id"`
	Segments []SegmentShortDTO `json:"segments"`
}

type SegmentSlugsDTO struct {
	Segments []string `json:"segments"`
}

type AddedReportDTO struct {
	Added  []string `json:"added"`
	Errors []string `json:"errors"`
}

type RemovedReportDTO struct {
	Removed []string `json:"removed"`
	Errors  []string `json:"errors"`
}

type UserCreatedDTO struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStatsDTO struct {
	TotalUsers int `json:"total_users"`
}
