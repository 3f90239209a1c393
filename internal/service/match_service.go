package service

import (
	"errors"

	"havn/internal/domain"
	"havn/internal/models"
	"havn/internal/repository"
)

var (
	ErrOfferCompleted = errors.New("offer already completed")
	ErrOwnRequest     = errors.New("cannot donate against your own request")
	ErrNotParticipant = errors.New("not a party to this match")
	ErrMatchCompleted = errors.New("match already completed")
	ErrStatusConflict = errors.New("match status changed, reload and retry")
)

// DonationDetails carries the item fields a donor submits when fulfilling a
// request; empty fields fall back to the request's own.
type DonationDetails struct {
	Title        string
	Category     string
	DeliveryType string
	Description  string
}

// MatchService owns match creation in both directions and the fixed
// forward-only status timeline.
type MatchService struct {
	matches   *repository.MatchRepository
	donations *repository.DonationRepository
	requests  *repository.RequestRepository
	notifier  *NotificationService
}

func NewMatchService(
	matches *repository.MatchRepository,
	donations *repository.DonationRepository,
	requests *repository.RequestRepository,
	notifier *NotificationService,
) *MatchService {
	return &MatchService{matches: matches, donations: donations, requests: requests, notifier: notifier}
}

// DonateAgainstRequest pairs the acting donor with an existing request.
// The request is force-marked Matched and the match snapshot is taken from
// the submitted details, falling back to the request's fields.
func (s *MatchService) DonateAgainstRequest(actorID, requestID uint, details DonationDetails) (*models.Match, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID == actorID {
		return nil, ErrOwnRequest
	}
	if err := s.requests.MarkMatched(requestID, actorID); err != nil {
		return nil, err
	}
	m := &models.Match{
		RequestID:            &req.ID,
		DonorID:              actorID,
		ReceiverID:           req.RequesterID,
		SnapshotTitle:        fallback(details.Title, req.Title),
		SnapshotCategory:     fallback(details.Category, req.Category),
		SnapshotDeliveryType: fallback(details.DeliveryType, req.DeliveryType),
		SnapshotDescription:  details.Description,
		Notes:                details.Description,
	}
	return s.createMatch(m)
}

// ReceiveOffer pairs the acting recipient with an existing donation. A
// completed offer cannot be claimed; the conditional claim also loses to a
// completion racing in from another session.
func (s *MatchService) ReceiveOffer(actorID, offerID uint) (*models.Match, error) {
	offer, err := s.donations.GetByID(offerID)
	if err != nil {
		return nil, err
	}
	if offer.DonorID == actorID {
		return nil, ErrOwnDonation
	}
	if offer.Status == domain.ItemStatusCompleted {
		return nil, ErrOfferCompleted
	}
	claimed, err := s.donations.ClaimForMatch(offerID, actorID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrOfferCompleted
	}
	m := &models.Match{
		OfferID:              &offer.ID,
		DonorID:              offer.DonorID,
		ReceiverID:           actorID,
		SnapshotTitle:        offer.Title,
		SnapshotCategory:     offer.Category,
		SnapshotDeliveryType: offer.DeliveryType,
		SnapshotDescription:  offer.Description,
	}
	return s.createMatch(m)
}

// createMatch is the shared tail of both directions: persist with the
// initial Pending history entry, then notify both parties.
func (s *MatchService) createMatch(m *models.Match) (*models.Match, error) {
	if err := s.matches.Create(m); err != nil {
		return nil, err
	}
	msg := "You have been matched for \"" + m.SnapshotTitle + "\"."
	_ = s.notifier.Notify(m.DonorID, domain.NotifMatchCreated, "Match confirmed", msg, m.ID)
	_ = s.notifier.Notify(m.ReceiverID, domain.NotifMatchCreated, "Match confirmed", msg, m.ID)
	return m, nil
}

// Advance moves the match one step along the fixed timeline. Only the
// donor or receiver may advance; a completed match reports
// ErrMatchCompleted and never re-records the terminal state. Reaching
// Completed propagates Completed to the linked donation/request inside the
// same transaction.
func (s *MatchService) Advance(actorID, matchID uint) (*models.Match, error) {
	m, err := s.matches.GetByID(matchID)
	if err != nil {
		return nil, err
	}
	if m.DonorID != actorID && m.ReceiverID != actorID {
		return nil, ErrNotParticipant
	}
	next, ok := domain.NextMatchStatus(m.Status)
	if !ok {
		return nil, ErrMatchCompleted
	}
	advanced, err := s.matches.AdvanceTo(matchID, m.Status, next, m.OfferID, m.RequestID)
	if err != nil {
		return nil, err
	}
	if !advanced {
		return nil, ErrStatusConflict
	}
	typ := domain.NotifMatchStatus
	title := "Delivery update"
	msg := "\"" + m.SnapshotTitle + "\" is now " + next + "."
	if next == domain.MatchStatusCompleted {
		typ = domain.NotifMatchCompleted
		title = "Donation completed"
		msg = "\"" + m.SnapshotTitle + "\" has been completed. Thank you!"
	}
	_ = s.notifier.Notify(m.DonorID, typ, title, msg, m.ID)
	_ = s.notifier.Notify(m.ReceiverID, typ, title, msg, m.ID)
	return s.matches.GetByID(matchID)
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
