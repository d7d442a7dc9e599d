package types

import "time"

type PatientReviewState struct {
	ID                      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID                int64     `gorm:"column:doctor_id;not null;uniqueIndex:idx_review_doctor_patient" json:"doctor_id"`
	PatientID               int64     `gorm:"column:patient_id;not null;uniqueIndex:idx_review_doctor_patient" json:"patient_id"`
	LastReviewedAt          time.Time `gorm:"column:last_reviewed_at;not null;default:now()" json:"last_reviewed_at"`
	LastReviewedAnalyticID  *int64    `gorm:"column:last_reviewed_analytic_id" json:"last_reviewed_analytic_id,omitempty"`
	CreatedAt               time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PatientReviewState) TableName() string { return "patient_review_state" }
