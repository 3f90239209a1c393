package repository

import (
	"havn/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedRepository struct {
	db *gorm.DB
}

func NewSavedRepository(db *gorm.DB) *SavedRepository {
	return &SavedRepository{db: db}
}

// Add is idempotent: saving an already saved donation is a no-op.
func (r *SavedRepository) Add(userID, donationID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedDonation{UserID: userID, DonationID: donationID}).Error
}

func (r *SavedRepository) Remove(userID, donationID uint) error {
	return r.db.Where("user_id = ? AND donation_id = ?", userID, donationID).Delete(&models.SavedDonation{}).Error
}

func (r *SavedRepository) IsSaved(userID, donationID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.SavedDonation{}).Where("user_id = ? AND donation_id = ?", userID, donationID).Count(&c).Error
	return c > 0, err
}

func (r *SavedRepository) ListByUserID(userID uint, limit, offset int) ([]models.Donation, error) {
	var list []models.Donation
	err := r.db.Joins("INNER JOIN saved_donations sd ON sd.donation_id = donations.id").
		Where("sd.user_id = ?", userID).
		Order("sd.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
