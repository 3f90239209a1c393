package handler

import (
	"net/http"

	"havn/internal/middleware"
	"havn/internal/repository"
	"havn/internal/service"

	"github.com/gin-gonic/gin"
)

// MeHandler serves the authenticated user's own profile and listings.
type MeHandler struct {
	users     *repository.UserRepository
	donations *repository.DonationRepository
	requests  *repository.RequestRepository
	saved     *repository.SavedRepository
	donateSvc *service.DonationService
}

func NewMeHandler(
	users *repository.UserRepository,
	donations *repository.DonationRepository,
	requests *repository.RequestRepository,
	saved *repository.SavedRepository,
	donateSvc *service.DonationService,
) *MeHandler {
	return &MeHandler{users: users, donations: donations, requests: requests, saved: saved, donateSvc: donateSvc}
}

func (h *MeHandler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Contact != nil {
		u.Contact = *req.Contact
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Donations lists the caller's own posted donations with their phases.
func (h *MeHandler) Donations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.donations.ListByDonor(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list donations"})
		return
	}
	views := make([]gin.H, 0, len(items))
	for i := range items {
		phase, err := h.donateSvc.Phase(&items[i])
		if err != nil {
			phase = items[i].Status
		}
		items[i].Requests = nil
		views = append(views, gin.H{"donation": items[i], "phase": phase})
	}
	c.JSON(http.StatusOK, gin.H{"donations": views})
}

// Requests lists the caller's own posted requests.
func (h *MeHandler) Requests(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.requests.ListByRequester(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

// Requested lists donations the caller has asked for.
func (h *MeHandler) Requested(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.donations.ListRequestedBy(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list requested donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": items})
}

// Accepted lists donations where the caller's request was accepted.
func (h *MeHandler) Accepted(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.donations.ListAcceptedFor(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list accepted donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": items})
}

// Saved lists the caller's bookmarked donations.
func (h *MeHandler) Saved(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.saved.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list saved donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": items})
}

type PushTokenRequest struct {
	ExpoToken string `json:"expo_token"`
	FCMToken  string `json:"fcm_token"`
}

// PushToken registers the device push token for notification delivery.
func (h *MeHandler) PushToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ExpoToken == "" && req.FCMToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expo_token or fcm_token required"})
		return
	}
	if req.ExpoToken != "" {
		if err := h.users.SetExpoPushToken(userID, req.ExpoToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save push token"})
			return
		}
	}
	if req.FCMToken != "" {
		if err := h.users.SetFCMToken(userID, req.FCMToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save push token"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
