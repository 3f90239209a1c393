package service

import (
	"errors"
	"fmt"

	"havn/internal/domain"
	"havn/internal/models"
	"havn/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrOwnDonation     = errors.New("cannot request your own donation")
	ErrNotOwner        = errors.New("only the donor can manage requests")
	ErrNoSuchRequest   = errors.New("no request from this user")
	ErrAlreadyAccepted = errors.New("request already accepted")
)

// DonationService owns the per-donation request/accept/remove sub-state
// machine and the contact-visibility rule.
type DonationService struct {
	donations *repository.DonationRepository
	users     *repository.UserRepository
	notifier  *NotificationService
}

func NewDonationService(donations *repository.DonationRepository, users *repository.UserRepository, notifier *NotificationService) *DonationService {
	return &DonationService{donations: donations, users: users, notifier: notifier}
}

// ToggleRequest requests the donation for actorID, or cancels an existing
// request. Requesting one's own donation fails without mutating anything.
// Returns true when the toggle left a request in place.
func (s *DonationService) ToggleRequest(donationID, actorID uint) (bool, error) {
	d, err := s.donations.GetByID(donationID)
	if err != nil {
		return false, err
	}
	if d.DonorID == actorID {
		return false, ErrOwnDonation
	}
	_, err = s.donations.GetRequest(donationID, actorID)
	switch {
	case err == nil:
		// Second toggle cancels: one delete clears both the request and
		// any accepted flag riding on it.
		if err := s.donations.RemoveRequest(donationID, actorID); err != nil {
			return false, err
		}
		s.notifyDonor(d, actorID, domain.NotifRequestCancelled, "Request cancelled",
			"%s withdrew their request for \"%s\"")
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.donations.AddRequest(donationID, actorID); err != nil {
			return false, err
		}
		s.notifyDonor(d, actorID, domain.NotifRequestReceived, "New request",
			"%s requested \"%s\"")
		return true, nil
	default:
		return false, err
	}
}

// Accept approves a pending request. Only the donor may accept; accepting
// an already-accepted request reports ErrAlreadyAccepted without mutating.
// A successful accept notifies both parties and reveals the donor's contact
// card to the requester.
func (s *DonationService) Accept(donationID, actorID, requesterID uint) error {
	d, err := s.donations.GetByID(donationID)
	if err != nil {
		return err
	}
	if d.DonorID != actorID {
		return ErrNotOwner
	}
	if _, err := s.donations.GetRequest(donationID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchRequest
		}
		return err
	}
	accepted, err := s.donations.AcceptRequest(donationID, requesterID)
	if err != nil {
		return err
	}
	if !accepted {
		return ErrAlreadyAccepted
	}
	requester, rerr := s.users.GetByID(requesterID)
	requesterName := "A requester"
	if rerr == nil {
		requesterName = requester.DisplayName()
	}
	_ = s.notifier.Notify(requesterID, domain.NotifRequestAccepted, "Request accepted",
		"Your request for \""+d.Title+"\" was accepted. You can now contact the donor.", d.ID)
	_ = s.notifier.Notify(d.DonorID, domain.NotifRequestAccepted, "Request accepted",
		"You accepted "+requesterName+"'s request for \""+d.Title+"\".", d.ID)
	return nil
}

// Remove rejects or withdraws a request whatever its accepted state. Safe
// when no request exists.
func (s *DonationService) Remove(donationID, actorID, requesterID uint) error {
	d, err := s.donations.GetByID(donationID)
	if err != nil {
		return err
	}
	if d.DonorID != actorID {
		return ErrNotOwner
	}
	if err := s.donations.RemoveRequest(donationID, requesterID); err != nil {
		return err
	}
	_ = s.notifier.Notify(requesterID, domain.NotifRequestRemoved, "Request removed",
		"Your request for \""+d.Title+"\" was removed by the donor.", d.ID)
	return nil
}

// ContactVisible reports whether viewerID may see the donor's contact
// fields: the donor always can, a requester only once accepted. Pure set
// membership, recomputed on every read.
func (s *DonationService) ContactVisible(d *models.Donation, viewerID uint) (bool, error) {
	if d.DonorID == viewerID {
		return true, nil
	}
	dr, err := s.donations.GetRequest(d.ID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return dr.Accepted, nil
}

// DonorContact resolves the donor's contact card when visible to viewerID,
// nil otherwise.
func (s *DonationService) DonorContact(d *models.Donation, viewerID uint) (*models.ContactCard, error) {
	visible, err := s.ContactVisible(d, viewerID)
	if err != nil || !visible {
		return nil, err
	}
	donor, err := s.users.GetByID(d.DonorID)
	if err != nil {
		return nil, err
	}
	card := donor.ContactCard()
	return &card, nil
}

// Phase returns the donation's presentation state.
func (s *DonationService) Phase(d *models.Donation) (string, error) {
	pending, err := s.donations.CountPendingRequests(d.ID)
	if err != nil {
		return "", err
	}
	return domain.ItemPhase(d.Status, int(pending)), nil
}

func (s *DonationService) notifyDonor(d *models.Donation, actorID uint, typ, title, format string) {
	actor, err := s.users.GetByID(actorID)
	name := "Someone"
	if err == nil {
		name = actor.DisplayName()
	}
	_ = s.notifier.Notify(d.DonorID, typ, title, fmt.Sprintf(format, name, d.Title), d.ID)
}
