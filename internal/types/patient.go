package types

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID      int64          `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Doctor        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:DoctorID;references:ID" json:"doctor,omitempty"`
	Alias         string         `gorm:"column:alias;not null" json:"alias"`
	Age           *int           `gorm:"column:age" json:"age,omitempty"`
	Gender        string         `gorm:"column:gender" json:"gender,omitempty"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	PatientNumber int            `gorm:"column:patient_number" json:"patient_number"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Patient) TableName() string { return "patients" }
