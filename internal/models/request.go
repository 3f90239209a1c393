package models

import (
	"time"

	"gorm.io/gorm"
)

// Request is a recipient-declared need, the mirror image of a Donation.
type Request struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RequesterID  uint           `gorm:"not null;index" json:"requester_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:50;index" json:"category"`
	Subcategory  string         `gorm:"size:50" json:"subcategory"`
	DeliveryType string         `gorm:"size:20" json:"delivery_type"`
	Address      string         `gorm:"size:255" json:"address"`
	Status       string         `gorm:"size:20;not null;default:'Open';index" json:"status"`
	MatchedBy    *uint          `json:"matched_by"` // donor who fulfilled the request
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}
