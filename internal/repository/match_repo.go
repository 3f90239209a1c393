package repository

import (
	"time"

	"havn/internal/domain"
	"havn/internal/models"

	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts the match and its initial Pending history entry in one
// transaction; every match starts its timeline the same way.
func (r *MatchRepository) Create(m *models.Match) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		m.Status = domain.MatchStatusPending
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Create(&models.MatchStatusEvent{
			MatchID:    m.ID,
			Status:     domain.MatchStatusPending,
			RecordedAt: time.Now(),
		}).Error
	})
}

func (r *MatchRepository) GetByID(id uint) (*models.Match, error) {
	var m models.Match
	err := r.db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("recorded_at ASC")
	}).First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) ListForUser(userID uint, limit, offset int) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Where("donor_id = ? OR receiver_id = ?", userID, userID).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at ASC")
		}).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// AdvanceTo moves the match from the observed status to next in a single
// transaction: conditional status update, idempotent history append, and on
// Completed the unconditional propagation to the linked donation/request.
// false return means another session changed the status first.
func (r *MatchRepository) AdvanceTo(id uint, from, next string, offerID, requestID *uint) (bool, error) {
	advanced := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Match{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		advanced = true
		if err := appendStatusEvent(tx, id, next); err != nil {
			return err
		}
		if next != domain.MatchStatusCompleted {
			return nil
		}
		if offerID != nil {
			if err := tx.Model(&models.Donation{}).Where("id = ?", *offerID).
				Update("status", domain.ItemStatusCompleted).Error; err != nil {
				return err
			}
		}
		if requestID != nil {
			if err := tx.Model(&models.Request{}).Where("id = ?", *requestID).
				Update("status", domain.ItemStatusCompleted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return advanced, err
}

// appendStatusEvent records the status once per match; a pre-existing entry
// for the same status is left alone.
func appendStatusEvent(tx *gorm.DB, matchID uint, status string) error {
	var c int64
	if err := tx.Model(&models.MatchStatusEvent{}).
		Where("match_id = ? AND status = ?", matchID, status).Count(&c).Error; err != nil {
		return err
	}
	if c > 0 {
		return nil
	}
	return tx.Create(&models.MatchStatusEvent{
		MatchID:    matchID,
		Status:     status,
		RecordedAt: time.Now(),
	}).Error
}
