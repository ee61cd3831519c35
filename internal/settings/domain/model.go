package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one key of the site-wide configuration bag. Values are
// stored as raw JSON so callers can keep arbitrary shapes per key.
type Setting struct {
	Key       string         `gorm:"primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}
