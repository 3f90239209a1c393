package service

import (
	"context"
	"log"
	"strconv"

	"havn/internal/models"
	"havn/internal/repository"
	"havn/internal/ws"
	"havn/pkg/expopush"
)

// NotificationService writes the durable in-app record first, then fans
// out over the realtime hub and the push channels. Push and realtime are
// best-effort: their failures never roll back the record.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	hub      *ws.Hub
	expo     *expopush.Client
	fcm      *FCMService
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	hub *ws.Hub,
	expo *expopush.Client,
	fcm *FCMService,
) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, hub: hub, expo: expo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, message string, relatedID uint) error {
	n := &models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, map[string]interface{}{
			"kind":         "notification",
			"notification": n,
		})
	}
	s.sendPush(userID, notifType, title, message, relatedID)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, message string, relatedID uint) {
	if s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil {
		return
	}
	data := map[string]string{
		"type":       notifType,
		"related_id": strconv.FormatUint(uint64(relatedID), 10),
	}
	if u.ExpoPushToken != "" && s.expo != nil {
		if err := s.expo.Send(context.Background(), u.ExpoPushToken, title, message, data); err != nil {
			log.Printf("[push] expo send to user %d: %v", userID, err)
		}
		return
	}
	if u.FCMToken != "" && s.fcm != nil {
		if err := s.fcm.Send(context.Background(), u.FCMToken, title, message, data); err != nil {
			log.Printf("[push] fcm send to user %d: %v", userID, err)
		}
	}
}
