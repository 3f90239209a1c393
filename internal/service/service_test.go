package service

import (
	"testing"

	"havn/internal/models"
	"havn/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	donations     *repository.DonationRepository
	requests      *repository.RequestRepository
	matches       *repository.MatchRepository
	notifications *repository.NotificationRepository

	notifier *NotificationService
	donate   *DonationService
	match    *MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.DonationRequest{},
		&models.Request{},
		&models.Match{},
		&models.MatchStatusEvent{},
		&models.Notification{},
		&models.SavedDonation{},
	))

	env := &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		donations:     repository.NewDonationRepository(db),
		requests:      repository.NewRequestRepository(db),
		matches:       repository.NewMatchRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
	env.notifier = NewNotificationService(env.notifications, env.users, nil, nil, nil)
	env.donate = NewDonationService(env.donations, env.users, env.notifier)
	env.match = NewMatchService(env.matches, env.donations, env.requests, env.notifier)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Contact: "555-" + name}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) donation(t *testing.T, donorID uint, title string) *models.Donation {
	t.Helper()
	d := &models.Donation{
		DonorID:      donorID,
		Title:        title,
		Category:     "Clothes",
		Subcategory:  "Jacket",
		DeliveryType: "PickUp",
		Status:       "Open",
	}
	require.NoError(t, e.donations.Create(d))
	return d
}

func (e *testEnv) request(t *testing.T, requesterID uint, title string) *models.Request {
	t.Helper()
	r := &models.Request{
		RequesterID:  requesterID,
		Title:        title,
		Category:     "Furniture",
		Subcategory:  "Desk",
		DeliveryType: "Delivery",
		Status:       "Open",
	}
	require.NoError(t, e.requests.Create(r))
	return r
}

func (e *testEnv) notificationTypes(t *testing.T, userID uint) []string {
	t.Helper()
	items, err := e.notifications.ListByUserID(userID, 50, 0)
	require.NoError(t, err)
	types := make([]string, 0, len(items))
	for _, n := range items {
		types = append(types, n.Type)
	}
	return types
}
