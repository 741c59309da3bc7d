package model

import "time"

// Milestone is a globally configured submission checkpoint, managed by admins.
type Milestone struct {
	BaseModel
	Name     string     `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Deadline *time.Time `json:"deadline"`
	Order    int        `gorm:"column:display_order;default:0" json:"order"`
}

func (Milestone) TableName() string {
	return "milestones"
}
