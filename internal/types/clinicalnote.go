package types

import "time"

type ClinicalNote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Patient   *Patient  `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	DoctorID  int64     `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ClinicalNote) TableName() string { return "clinical_notes" }
