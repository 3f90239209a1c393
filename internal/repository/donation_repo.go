package repository

import (
	"time"

	"havn/internal/domain"
	"havn/internal/models"

	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(d *models.Donation) error {
	return r.db.Create(d).Error
}

func (r *DonationRepository) GetByID(id uint) (*models.Donation, error) {
	var d models.Donation
	err := r.db.Preload("Requests").First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) Update(d *models.Donation) error {
	return r.db.Save(d).Error
}

// ListOpen returns browsable donations, newest first. Empty category or
// subcategory means no filter on that field.
func (r *DonationRepository) ListOpen(category, subcategory string, limit, offset int) ([]models.Donation, error) {
	q := r.db.Where("status = ?", domain.ItemStatusOpen)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if subcategory != "" {
		q = q.Where("subcategory = ?", subcategory)
	}
	var list []models.Donation
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *DonationRepository) ListByDonor(donorID uint, limit, offset int) ([]models.Donation, error) {
	var list []models.Donation
	err := r.db.Where("donor_id = ?", donorID).Preload("Requests").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListRequestedBy returns donations the user has an outstanding request on.
func (r *DonationRepository) ListRequestedBy(userID uint, limit, offset int) ([]models.Donation, error) {
	var list []models.Donation
	err := r.db.Joins("INNER JOIN donation_requests dr ON dr.donation_id = donations.id").
		Where("dr.user_id = ?", userID).
		Order("donations.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListAcceptedFor returns donations where the user's request was accepted.
func (r *DonationRepository) ListAcceptedFor(userID uint, limit, offset int) ([]models.Donation, error) {
	var list []models.Donation
	err := r.db.Joins("INNER JOIN donation_requests dr ON dr.donation_id = donations.id").
		Where("dr.user_id = ? AND dr.accepted = ?", userID, true).
		Order("donations.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *DonationRepository) GetRequest(donationID, userID uint) (*models.DonationRequest, error) {
	var dr models.DonationRequest
	err := r.db.Where("donation_id = ? AND user_id = ?", donationID, userID).First(&dr).Error
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

func (r *DonationRepository) AddRequest(donationID, userID uint) error {
	return r.db.Create(&models.DonationRequest{DonationID: donationID, UserID: userID}).Error
}

// RemoveRequest deletes the request row whatever its accepted state; the
// single delete clears both set memberships at once. Absent rows are fine.
func (r *DonationRepository) RemoveRequest(donationID, userID uint) error {
	return r.db.Where("donation_id = ? AND user_id = ?", donationID, userID).
		Delete(&models.DonationRequest{}).Error
}

// AcceptRequest flips the accepted flag with a conditional update so a
// concurrent accept loses cleanly: false return means the row was already
// accepted (or another session got there first).
func (r *DonationRepository) AcceptRequest(donationID, userID uint) (bool, error) {
	res := r.db.Model(&models.DonationRequest{}).
		Where("donation_id = ? AND user_id = ? AND accepted = ?", donationID, userID, false).
		Updates(map[string]interface{}{"accepted": true, "accepted_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DonationRepository) CountPendingRequests(donationID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.DonationRequest{}).
		Where("donation_id = ? AND accepted = ?", donationID, false).Count(&c).Error
	return c, err
}

// ListRequesters returns the users behind a donation's request rows, with
// each row's accepted flag, newest request first.
type RequesterEntry struct {
	User      models.User `json:"user"`
	Accepted  bool        `json:"accepted"`
	CreatedAt time.Time   `json:"requested_at"`
}

func (r *DonationRepository) ListRequesters(donationID uint) ([]RequesterEntry, error) {
	var rows []models.DonationRequest
	err := r.db.Where("donation_id = ?", donationID).Preload("User").
		Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]RequesterEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, RequesterEntry{User: row.User, Accepted: row.Accepted, CreatedAt: row.CreatedAt})
	}
	return out, nil
}

// ClaimForMatch marks the offer Matched unless it has already completed.
// Conditional so a claim racing a completion loses; false return means the
// offer was Completed.
func (r *DonationRepository) ClaimForMatch(donationID, receiverID uint) (bool, error) {
	res := r.db.Model(&models.Donation{}).
		Where("id = ? AND status <> ?", donationID, domain.ItemStatusCompleted).
		Updates(map[string]interface{}{"status": domain.ItemStatusMatched, "matched_by": receiverID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
