package models

import (
	"time"

	"gorm.io/gorm"
)

type Donation struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	DonorID      uint           `gorm:"not null;index" json:"donor_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:50;index" json:"category"`
	Subcategory  string         `gorm:"size:50" json:"subcategory"`
	ImageURL     string         `gorm:"size:512" json:"image_url"`
	DeliveryType string         `gorm:"size:20" json:"delivery_type"` // PickUp | Delivery
	Status       string         `gorm:"size:20;not null;default:'Open';index" json:"status"`
	MatchedBy    *uint          `json:"matched_by"` // receiver who claimed the offer
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Donor    User              `gorm:"foreignKey:DonorID" json:"-"`
	Requests []DonationRequest `gorm:"foreignKey:DonationID" json:"requests,omitempty"`
}

func (Donation) TableName() string {
	return "donations"
}

// DonationRequest is one requester's claim on a donation. The accepted flag
// is a subset marker, so accepted requesters are always requesters and the
// two sets cannot drift apart. Rows are hard-deleted on cancel/remove so a
// user can request the same donation again later.
type DonationRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	DonationID uint       `gorm:"not null;index:idx_donation_requester,unique" json:"donation_id"`
	UserID     uint       `gorm:"not null;index:idx_donation_requester,unique" json:"user_id"`
	Accepted   bool       `gorm:"default:false;index" json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`

	Donation Donation `gorm:"foreignKey:DonationID" json:"-"`
	User     User     `gorm:"foreignKey:UserID" json:"-"`
}

func (DonationRequest) TableName() string {
	return "donation_requests"
}
