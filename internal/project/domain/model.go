package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusOnHold     Status = "on-hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// Project identifiers are caller-assigned short codes such as "P-0001".
// The service allocates one from the settings counter when the caller
// leaves the id blank.
type Project struct {
	ID          string         `gorm:"primaryKey;size:32" json:"id"`
	Title       string         `gorm:"size:500;not null" json:"title"`
	Description string         `gorm:"size:2000" json:"description"`
	Priority    Priority       `gorm:"size:16;index" json:"priority"`
	Location    string         `gorm:"size:500" json:"location"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Assignee    string         `gorm:"size:500" json:"assignee"`
	Tags        datatypes.JSON `json:"tags,omitempty"`
	Image       string         `json:"image,omitempty"`
	Status      Status         `gorm:"size:16;index" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}
