package domain

import "time"

// AuthAttempt is one row of the login audit log. The log is bounded;
// writes prune the oldest rows past the configured cap.
type AuthAttempt struct {
	ID        int64     `json:"-" gorm:"primaryKey"`
	IPAddress string    `json:"ipAddress" gorm:"size:64;index"`
	UserAgent string    `json:"userAgent" gorm:"size:512"`
	Action    string    `json:"action" gorm:"size:32"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (AuthAttempt) TableName() string {
	return "auth_attempts"
}
