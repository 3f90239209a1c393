package service

import (
	"testing"

	"havn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiveOfferCreatesMatchAndClaimsDonation(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Winter jacket")

	m, err := env.match.ReceiveOffer(alice.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchStatusPending, m.Status)
	assert.Equal(t, donor.ID, m.DonorID)
	assert.Equal(t, alice.ID, m.ReceiverID)
	require.NotNil(t, m.OfferID)
	assert.Equal(t, d.ID, *m.OfferID)
	assert.Equal(t, "Winter jacket", m.SnapshotTitle)

	reloaded, err := env.donations.GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusMatched, reloaded.Status)
	require.NotNil(t, reloaded.MatchedBy)
	assert.Equal(t, alice.ID, *reloaded.MatchedBy)

	// Both parties hear about the match.
	assert.Contains(t, env.notificationTypes(t, donor.ID), domain.NotifMatchCreated)
	assert.Contains(t, env.notificationTypes(t, alice.ID), domain.NotifMatchCreated)
}

func TestReceiveOfferRejectsOwnAndCompleted(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Sofa")

	_, err := env.match.ReceiveOffer(donor.ID, d.ID)
	assert.ErrorIs(t, err, ErrOwnDonation)

	d.Status = domain.ItemStatusCompleted
	require.NoError(t, env.donations.Update(d))
	_, err = env.match.ReceiveOffer(alice.ID, d.ID)
	assert.ErrorIs(t, err, ErrOfferCompleted)
}

func TestDonateAgainstRequestSnapshotFallsBackToRequestFields(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	r := env.request(t, alice.ID, "Study desk")

	m, err := env.match.DonateAgainstRequest(donor.ID, r.ID, DonationDetails{Title: "Oak desk"})
	require.NoError(t, err)
	assert.Equal(t, "Oak desk", m.SnapshotTitle)
	assert.Equal(t, r.Category, m.SnapshotCategory)
	assert.Equal(t, r.DeliveryType, m.SnapshotDeliveryType)
	require.NotNil(t, m.RequestID)
	assert.Equal(t, r.ID, *m.RequestID)

	reloaded, err := env.requests.GetByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusMatched, reloaded.Status)
	require.NotNil(t, reloaded.MatchedBy)
	assert.Equal(t, donor.ID, *reloaded.MatchedBy)
}

func TestDonateAgainstOwnRequestRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	r := env.request(t, alice.ID, "Yoga mat")

	_, err := env.match.DonateAgainstRequest(alice.ID, r.ID, DonationDetails{})
	assert.ErrorIs(t, err, ErrOwnRequest)
}

func TestAdvanceWalksFullTimelineOnce(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Cricket bat")

	m, err := env.match.ReceiveOffer(alice.ID, d.ID)
	require.NoError(t, err)

	for _, want := range []string{domain.MatchStatusMatched, domain.MatchStatusInTransit, domain.MatchStatusCompleted} {
		m, err = env.match.Advance(donor.ID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, want, m.Status)
	}

	// Terminal state never advances and never re-records history.
	_, err = env.match.Advance(donor.ID, m.ID)
	assert.ErrorIs(t, err, ErrMatchCompleted)

	final, err := env.matches.GetByID(m.ID)
	require.NoError(t, err)
	require.Len(t, final.History, len(domain.MatchTimeline))
	recorded := make([]string, 0, len(final.History))
	for _, ev := range final.History {
		recorded = append(recorded, ev.Status)
	}
	assert.ElementsMatch(t, domain.MatchTimeline, recorded)
}

func TestAdvanceCompletionPropagatesToDonation(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "TV")

	m, err := env.match.ReceiveOffer(alice.ID, d.ID)
	require.NoError(t, err)
	for range 3 {
		m, err = env.match.Advance(alice.ID, m.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, domain.MatchStatusCompleted, m.Status)

	reloaded, err := env.donations.GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusCompleted, reloaded.Status)

	assert.Contains(t, env.notificationTypes(t, donor.ID), domain.NotifMatchCompleted)
	assert.Contains(t, env.notificationTypes(t, alice.ID), domain.NotifMatchCompleted)
}

func TestAdvanceRequiresParticipant(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	d := env.donation(t, donor.ID, "Laptop")

	m, err := env.match.ReceiveOffer(alice.ID, d.ID)
	require.NoError(t, err)

	_, err = env.match.Advance(mallory.ID, m.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}
