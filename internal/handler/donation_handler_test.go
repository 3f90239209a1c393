package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"havn/internal/models"
	"havn/internal/repository"
	"havn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerFixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	donations *repository.DonationRepository
	handler   *DonationHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
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

	users := repository.NewUserRepository(db)
	donations := repository.NewDonationRepository(db)
	requests := repository.NewRequestRepository(db)
	matches := repository.NewMatchRepository(db)
	notifications := repository.NewNotificationRepository(db)
	saved := repository.NewSavedRepository(db)

	notifier := service.NewNotificationService(notifications, users, nil, nil, nil)
	donateSvc := service.NewDonationService(donations, users, notifier)
	matchSvc := service.NewMatchService(matches, donations, requests, notifier)

	return &handlerFixture{
		db:        db,
		users:     users,
		donations: donations,
		handler:   NewDonationHandler(donations, saved, donateSvc, matchSvc),
	}
}

func (f *handlerFixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, f.users.Create(u))
	return u
}

// perform runs one handler with an authenticated test context, the way the
// auth middleware would have prepared it.
func perform(userID uint, method, path string, body any, params gin.Params, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set("user_id", userID)
	fn(c)
	return w
}

func idParam(id uint) gin.Params {
	return gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(id), 10)}}
}

func TestCreateDonationValidatesCatalog(t *testing.T) {
	f := newHandlerFixture(t)
	donor := f.user(t, "donor")

	w := perform(donor.ID, http.MethodPost, "/donations", gin.H{
		"title":         "Winter jacket",
		"category":      "NotACategory",
		"delivery_type": "PickUp",
	}, nil, f.handler.Create)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(donor.ID, http.MethodPost, "/donations", gin.H{
		"title":         "Winter jacket",
		"category":      "Clothes",
		"subcategory":   "Jacket",
		"delivery_type": "PickUp",
	}, nil, f.handler.Create)
	require.Equal(t, http.StatusCreated, w.Code)

	var d models.Donation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, donor.ID, d.DonorID)
	assert.Equal(t, "Open", d.Status)
}

func TestToggleRequestEndpointMapsDomainErrors(t *testing.T) {
	f := newHandlerFixture(t)
	donor := f.user(t, "donor")
	alice := f.user(t, "alice")

	d := &models.Donation{DonorID: donor.ID, Title: "Sofa", Category: "Furniture", DeliveryType: "PickUp", Status: "Open"}
	require.NoError(t, f.donations.Create(d))

	// Donor requesting their own item is a client error.
	w := perform(donor.ID, http.MethodPost, "/donations/1/request", nil, idParam(d.ID), f.handler.ToggleRequest)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(alice.ID, http.MethodPost, "/donations/1/request", nil, idParam(d.ID), f.handler.ToggleRequest)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"requested": true}`, w.Body.String())

	w = perform(alice.ID, http.MethodPost, "/donations/1/request", nil, idParam(d.ID), f.handler.ToggleRequest)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"requested": false}`, w.Body.String())

	// Unknown donation.
	w = perform(alice.ID, http.MethodPost, "/donations/999/request", nil, idParam(999), f.handler.ToggleRequest)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptEndpointConflictOnSecondAccept(t *testing.T) {
	f := newHandlerFixture(t)
	donor := f.user(t, "donor")
	alice := f.user(t, "alice")

	d := &models.Donation{DonorID: donor.ID, Title: "Desk", Category: "Furniture", DeliveryType: "Delivery", Status: "Open"}
	require.NoError(t, f.donations.Create(d))

	w := perform(alice.ID, http.MethodPost, "/donations/1/request", nil, idParam(d.ID), f.handler.ToggleRequest)
	require.Equal(t, http.StatusOK, w.Code)

	body := gin.H{"user_id": alice.ID}
	w = perform(donor.ID, http.MethodPost, "/donations/1/accept", body, idParam(d.ID), f.handler.Accept)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(donor.ID, http.MethodPost, "/donations/1/accept", body, idParam(d.ID), f.handler.Accept)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Only the donor may accept.
	w = perform(alice.ID, http.MethodPost, "/donations/1/accept", body, idParam(d.ID), f.handler.Accept)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
