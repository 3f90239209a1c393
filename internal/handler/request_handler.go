package handler

import (
	"errors"
	"net/http"

	"havn/internal/domain"
	"havn/internal/middleware"
	"havn/internal/models"
	"havn/internal/repository"
	"havn/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RequestHandler struct {
	requests *repository.RequestRepository
	matchSvc *service.MatchService
}

func NewRequestHandler(requests *repository.RequestRepository, matchSvc *service.MatchService) *RequestHandler {
	return &RequestHandler{requests: requests, matchSvc: matchSvc}
}

type CreateRequestRequest struct {
	Title        string `json:"title" binding:"required,min=2,max=255"`
	Description  string `json:"description"`
	Category     string `json:"category" binding:"required"`
	Subcategory  string `json:"subcategory"`
	DeliveryType string `json:"delivery_type" binding:"required"`
	Address      string `json:"address"`
}

func (h *RequestHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	if !domain.ValidDeliveryType(req.DeliveryType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_type must be PickUp or Delivery"})
		return
	}
	r := &models.Request{
		RequesterID:  userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		DeliveryType: req.DeliveryType,
		Address:      req.Address,
		Status:       domain.ItemStatusOpen,
	}
	if err := h.requests.Create(r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create request"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// List returns open requests for donors to browse.
func (h *RequestHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.requests.ListOpen(c.Query("category"), c.Query("subcategory"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.requests.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load request"})
		return
	}
	c.JSON(http.StatusOK, r)
}

type DonateRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	DeliveryType string `json:"delivery_type"`
	Description  string `json:"description"`
}

// Donate fulfils an open request as the acting donor, creating a match.
// Item fields are optional and fall back to the request's own.
func (h *RequestHandler) Donate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	// Every field is optional and an empty body is fine.
	var req DonateRequest
	_ = c.ShouldBindJSON(&req)
	m, err := h.matchSvc.DonateAgainstRequest(userID, id, service.DonationDetails{
		Title:        req.Title,
		Category:     req.Category,
		DeliveryType: req.DeliveryType,
		Description:  req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, service.ErrOwnRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not donate"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"match": m})
}
