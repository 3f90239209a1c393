package handler

import (
	"errors"
	"net/http"
	"strconv"

	"havn/internal/domain"
	"havn/internal/middleware"
	"havn/internal/models"
	"havn/internal/repository"
	"havn/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DonationHandler struct {
	donations *repository.DonationRepository
	saved     *repository.SavedRepository
	donateSvc *service.DonationService
	matchSvc  *service.MatchService
}

func NewDonationHandler(
	donations *repository.DonationRepository,
	saved *repository.SavedRepository,
	donateSvc *service.DonationService,
	matchSvc *service.MatchService,
) *DonationHandler {
	return &DonationHandler{donations: donations, saved: saved, donateSvc: donateSvc, matchSvc: matchSvc}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type CreateDonationRequest struct {
	Title        string `json:"title" binding:"required,min=2,max=255"`
	Description  string `json:"description"`
	Category     string `json:"category" binding:"required"`
	Subcategory  string `json:"subcategory"`
	ImageURL     string `json:"image_url"`
	DeliveryType string `json:"delivery_type" binding:"required"`
}

func (h *DonationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateDonationRequest
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
	d := &models.Donation{
		DonorID:      userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		ImageURL:     req.ImageURL,
		DeliveryType: req.DeliveryType,
		Status:       domain.ItemStatusOpen,
	}
	if err := h.donations.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create donation"})
		return
	}
	c.JSON(http.StatusCreated, d)
}

// List returns open donations for browsing, each decorated with its
// presentation phase.
func (h *DonationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.donations.ListOpen(c.Query("category"), c.Query("subcategory"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": h.decorate(items)})
}

type donationView struct {
	models.Donation
	Phase string `json:"phase"`
}

func (h *DonationHandler) decorate(items []models.Donation) []donationView {
	views := make([]donationView, 0, len(items))
	for i := range items {
		phase, err := h.donateSvc.Phase(&items[i])
		if err != nil {
			phase = items[i].Status
		}
		items[i].Requests = nil
		views = append(views, donationView{Donation: items[i], Phase: phase})
	}
	return views
}

// Get returns a donation detail. The donor additionally sees the requester
// list; an accepted requester (or the matched receiver) sees the donor's
// contact card.
func (h *DonationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.donations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load donation"})
		return
	}
	phase, err := h.donateSvc.Phase(d)
	if err != nil {
		phase = d.Status
	}

	requested := false
	accepted := false
	for _, r := range d.Requests {
		if r.UserID == userID {
			requested = true
			accepted = r.Accepted
		}
	}
	d.Requests = nil

	resp := gin.H{
		"donation":  d,
		"phase":     phase,
		"is_mine":   d.DonorID == userID,
		"requested": requested,
		"accepted":  accepted,
	}
	if saved, err := h.saved.IsSaved(userID, d.ID); err == nil {
		resp["saved"] = saved
	}
	if d.DonorID == userID {
		if requesters, err := h.donations.ListRequesters(d.ID); err == nil {
			resp["requesters"] = requesters
		}
	}
	if contact, err := h.donateSvc.DonorContact(d, userID); err == nil && contact != nil {
		resp["donor_contact"] = contact
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleRequest adds or withdraws the caller's request on a donation.
func (h *DonationHandler) ToggleRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	requested, err := h.donateSvc.ToggleRequest(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		case errors.Is(err, service.ErrOwnDonation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update request"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": requested})
}

// Requesters lists everyone who requested the donation. Donor only.
func (h *DonationHandler) Requesters(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.donations.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		return
	}
	if d.DonorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the donor can view requesters"})
		return
	}
	entries, err := h.donations.ListRequesters(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list requesters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requesters": entries})
}

type requesterAction struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Accept marks one requester as accepted, revealing the donor's contact to
// them.
func (h *DonationHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req requesterAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.donateSvc.Accept(id, userID, req.UserID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoSuchRequest):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyAccepted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept request"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// RemoveRequester rejects a requester, accepted or not.
func (h *DonationHandler) RemoveRequester(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req requesterAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.donateSvc.Remove(id, userID, req.UserID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove request"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// Receive claims an open donation as its receiver, creating a match.
func (h *DonationHandler) Receive(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.matchSvc.ReceiveOffer(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		case errors.Is(err, service.ErrOfferCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOwnDonation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not claim donation"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"match": m})
}

// Save bookmarks a donation for the caller.
func (h *DonationHandler) Save(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.donations.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
		return
	}
	if err := h.saved.Add(userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save donation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *DonationHandler) Unsave(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.saved.Remove(userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unsave donation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": false})
}
