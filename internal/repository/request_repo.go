package repository

import (
	"havn/internal/domain"
	"havn/internal/models"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *models.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id uint) (*models.Request, error) {
	var req models.Request
	err := r.db.First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListOpen(category, subcategory string, limit, offset int) ([]models.Request, error) {
	q := r.db.Where("status = ?", domain.ItemStatusOpen)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if subcategory != "" {
		q = q.Where("subcategory = ?", subcategory)
	}
	var list []models.Request
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *RequestRepository) ListByRequester(requesterID uint, limit, offset int) ([]models.Request, error) {
	var list []models.Request
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkMatched force-sets the request to Matched with the donor who stepped
// up. Unconditional: a donor fulfilling a request wins over any prior state
// short of completion handled by the caller.
func (r *RequestRepository) MarkMatched(id, donorID uint) error {
	return r.db.Model(&models.Request{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": domain.ItemStatusMatched, "matched_by": donorID}).Error
}
