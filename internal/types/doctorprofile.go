package types

import "time"

type DoctorProfile struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	FirstName     string    `gorm:"column:first_name;size:100" json:"first_name"`
	LastName      string    `gorm:"column:last_name;size:100" json:"last_name"`
	Specialty     string    `gorm:"column:specialty;size:120" json:"specialty"`
	LicenseNumber string    `gorm:"column:license_number;size:50" json:"license_number"`
	Phone         string    `gorm:"column:phone;size:30" json:"phone"`
	Center        string    `gorm:"column:center;size:150" json:"center"`
	City          string    `gorm:"column:city;size:120" json:"city"`
	Bio           string    `gorm:"column:bio;type:text" json:"bio"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DoctorProfile) TableName() string { return "doctor_profiles" }
