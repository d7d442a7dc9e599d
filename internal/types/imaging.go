package types

import (
	"time"

	"gorm.io/datatypes"
)

type Imaging struct {
	ID           int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    int64            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Patient      *Patient         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Type         string           `gorm:"column:type" json:"type,omitempty"`
	Summary      string           `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Differential string           `gorm:"column:differential;type:text" json:"differential,omitempty"`
	StorageKey   string           `gorm:"column:storage_key" json:"-"`
	FileURL      string           `gorm:"column:file_url" json:"file_url,omitempty"`
	FileHash     string           `gorm:"column:file_hash" json:"file_hash,omitempty"`
	SizeBytes    int64            `gorm:"column:size_bytes;default:0" json:"size_bytes"`
	ExamDate     *time.Time       `gorm:"column:exam_date;type:date" json:"exam_date,omitempty"`
	Overlay      datatypes.JSON   `gorm:"column:overlay;type:jsonb" json:"overlay,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"created_at"`
	Patterns     []ImagingPattern `gorm:"constraint:OnDelete:CASCADE;foreignKey:ImagingID;references:ID" json:"patterns,omitempty"`
}

func (Imaging) TableName() string { return "imaging" }

type ImagingPattern struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ImagingID   int64  `gorm:"column:imaging_id;not null;index" json:"imaging_id"`
	PatternText string `gorm:"column:pattern_text;type:text;not null" json:"pattern_text"`
}

func (ImagingPattern) TableName() string { return "imaging_patterns" }
