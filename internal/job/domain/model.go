package domain

import (
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryPrototype   Category = "prototype"
	CategoryProduction  Category = "production"
	CategoryResearch    Category = "research"
	CategoryMaintenance Category = "maintenance"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPrototype, CategoryProduction, CategoryResearch, CategoryMaintenance, CategoryOther:
		return true
	default:
		return false
	}
}

// LocationCounts holds the per-site quantity counters. The seven locations
// are fixed; total quantity is always their sum.
type LocationCounts struct {
	MainWorkshop int `json:"mainWorkshop" gorm:"column:qty_main_workshop;not null;default:0"`
	Assembly     int `json:"assembly" gorm:"column:qty_assembly;not null;default:0"`
	Maintenance  int `json:"maintenance" gorm:"column:qty_maintenance;not null;default:0"`
	QualityLab   int `json:"qualityLab" gorm:"column:qty_quality_lab;not null;default:0"`
	PaintShop    int `json:"paintShop" gorm:"column:qty_paint_shop;not null;default:0"`
	Warehouse    int `json:"warehouse" gorm:"column:qty_warehouse;not null;default:0"`
	FieldService int `json:"fieldService" gorm:"column:qty_field_service;not null;default:0"`
}

// Sum returns the total quantity across all locations.
func (l LocationCounts) Sum() int {
	return l.MainWorkshop + l.Assembly + l.Maintenance + l.QualityLab +
		l.PaintShop + l.Warehouse + l.FieldService
}

// Negative reports whether any counter is below zero.
func (l LocationCounts) Negative() bool {
	return l.MainWorkshop < 0 || l.Assembly < 0 || l.Maintenance < 0 ||
		l.QualityLab < 0 || l.PaintShop < 0 || l.Warehouse < 0 || l.FieldService < 0
}

// Job is one recorded 3D-print production run. Cost fields below PrintMinutes
// are derived server-side; stored values always satisfy
// TotalQuantity == LocationCounts.Sum() and
// TotalSavings == TotalQuantity * SavingsPerUnit.
type Job struct {
	ID           int64    `json:"-" gorm:"primaryKey"`
	Date         string   `json:"date" gorm:"type:text"`
	ProjectName  string   `json:"projectName" gorm:"type:text;not null"`
	PartName     string   `json:"partName" gorm:"type:text;not null"`
	PartType     string   `json:"partType" gorm:"type:text"`
	PartSize     string   `json:"partSize" gorm:"type:text"`
	Application  string   `json:"application" gorm:"type:text"`
	Material     string   `json:"material" gorm:"type:text"`
	Machine      string   `json:"machine" gorm:"type:text"`
	DocumentLink string   `json:"documentLink" gorm:"type:text"`
	Status       Status   `json:"status" gorm:"type:text;not null"`
	Category     Category `json:"category" gorm:"type:text;not null"`

	PrintMinutes    float64 `json:"printMinutes" gorm:"not null;default:0"`
	PrintHours      float64 `json:"printHours" gorm:"not null;default:0"`
	UnitPrice       float64 `json:"unitPrice" gorm:"not null;default:0"`
	ElectricityCost float64 `json:"electricityCost" gorm:"not null;default:0"`
	TotalCost       float64 `json:"totalCost" gorm:"not null;default:0"`
	OEMCost         float64 `json:"oemCost" gorm:"column:oem_cost;not null;default:0"`
	SavingsPerUnit  float64 `json:"savingsPerUnit" gorm:"not null;default:0"`

	Quantities    LocationCounts `json:"quantities" gorm:"embedded"`
	TotalQuantity int            `json:"totalQuantity" gorm:"not null;default:0"`
	TotalSavings  float64        `json:"totalSavings" gorm:"not null;default:0"`

	Image string `json:"image,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Job) TableName() string { return "jobs" }
