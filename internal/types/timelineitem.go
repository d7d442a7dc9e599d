package types

import "time"

// TimelineItem is a pointer into one of the per-patient record tables
// (analytic / imaging / note), kept in a single chronological feed.
type TimelineItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Patient   *Patient  `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	ItemType  string    `gorm:"column:item_type;not null" json:"item_type"`
	ItemID    int64     `gorm:"column:item_id;not null" json:"item_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TimelineItem) TableName() string { return "timeline_items" }
