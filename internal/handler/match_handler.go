package handler

import (
	"errors"
	"net/http"

	"havn/internal/middleware"
	"havn/internal/repository"
	"havn/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MatchHandler struct {
	matches  *repository.MatchRepository
	matchSvc *service.MatchService
}

func NewMatchHandler(matches *repository.MatchRepository, matchSvc *service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches, matchSvc: matchSvc}
}

// List returns the caller's matches, newest first, with status history.
func (h *MatchHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	items, err := h.matches.ListForUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": items})
}

func (h *MatchHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.matches.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load match"})
		return
	}
	if m.DonorID != userID && m.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a party to this match"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// Advance moves the match one step along its timeline.
func (h *MatchHandler) Advance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.matchSvc.Advance(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMatchCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrStatusConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not advance match"})
		}
		return
	}
	c.JSON(http.StatusOK, m)
}
