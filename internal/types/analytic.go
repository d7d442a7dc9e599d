package types

import (
	"time"
)

// Analytic is one uploaded lab report for a patient. ExamDate is the
// real-world acquisition date when the report carries one; CreatedAt is the
// ingestion timestamp and doubles as the fallback date for comparisons.
type Analytic struct {
	ID           int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    int64            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Patient      *Patient         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Summary      string           `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Differential string           `gorm:"column:differential;type:text" json:"differential,omitempty"`
	StorageKey   string           `gorm:"column:storage_key" json:"-"`
	FileURL      string           `gorm:"column:file_url" json:"file_url,omitempty"`
	FileHash     string           `gorm:"column:file_hash" json:"file_hash,omitempty"`
	SizeBytes    int64            `gorm:"column:size_bytes;default:0" json:"size_bytes"`
	ExamDate     *time.Time       `gorm:"column:exam_date;type:date" json:"exam_date,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"created_at"`
	Markers      []AnalyticMarker `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalyticID;references:ID" json:"markers,omitempty"`
}

func (Analytic) TableName() string { return "analytics" }

type AnalyticMarker struct {
	ID         int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AnalyticID int64    `gorm:"column:analytic_id;not null;index" json:"analytic_id"`
	Name       string   `gorm:"column:name;not null" json:"name"`
	Value      *float64 `gorm:"column:value" json:"value,omitempty"`
	Unit       string   `gorm:"column:unit" json:"unit,omitempty"`
	RefMin     *float64 `gorm:"column:ref_min" json:"ref_min,omitempty"`
	RefMax     *float64 `gorm:"column:ref_max" json:"ref_max,omitempty"`
}

func (AnalyticMarker) TableName() string { return "analytic_markers" }
