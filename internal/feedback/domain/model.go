package domain

import "time"

type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryTechnical  Category = "technical"
	CategoryComplaint  Category = "complaint"
	CategorySuggestion Category = "suggestion"
	CategoryBugReport  Category = "bug-report"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryTechnical, CategoryComplaint, CategorySuggestion, CategoryBugReport:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusNew      Status = "new"
	StatusInReview Status = "in-review"
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInReview, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// Feedback is a user-submitted rating/comment. There is no update-in-place;
// records are created, listed and deleted only.
type Feedback struct {
	ID       int64    `json:"-" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"type:text;not null"`
	Email    string   `json:"email" gorm:"type:text;not null"`
	PartName string   `json:"partName" gorm:"type:text"`
	Location string   `json:"location" gorm:"type:text"`
	Category Category `json:"category" gorm:"type:text;not null"`
	Subject  string   `json:"subject" gorm:"type:text"`
	Message  string   `json:"message" gorm:"type:text;not null"`
	Rating   int      `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Image    string   `json:"image,omitempty" gorm:"type:text"`
	Status   Status   `json:"status" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (Feedback) TableName() string { return "feedback" }
