package models

import "time"

// SavedDonation is a user's bookmark on a listing. Hard-deleted on unsave
// so the unique pair index never blocks a re-save.
type SavedDonation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_saved_user_donation,unique" json:"user_id"`
	DonationID uint      `gorm:"not null;index:idx_saved_user_donation,unique" json:"donation_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Donation Donation `gorm:"foreignKey:DonationID" json:"-"`
}

func (SavedDonation) TableName() string {
	return "saved_donations"
}
