package service

import (
	"testing"

	"havn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleRequestAddsAndWithdraws(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Winter jacket")

	requested, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, requested)

	phase, err := env.donate.Phase(d)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPhaseRequested, phase)

	// Second toggle withdraws and the donation reads Open again.
	requested, err = env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, requested)

	phase, err = env.donate.Phase(d)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusOpen, phase)

	// Re-requesting after a withdrawal works.
	requested, err = env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, requested)

	assert.ElementsMatch(t,
		[]string{domain.NotifRequestReceived, domain.NotifRequestCancelled, domain.NotifRequestReceived},
		env.notificationTypes(t, donor.ID))
}

func TestToggleRequestRejectsOwnDonation(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	d := env.donation(t, donor.ID, "Desk lamp")

	_, err := env.donate.ToggleRequest(d.ID, donor.ID)
	assert.ErrorIs(t, err, ErrOwnDonation)
	assert.Empty(t, env.notificationTypes(t, donor.ID))
}

func TestAcceptRevealsContactToAcceptedRequesterOnly(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	d := env.donation(t, donor.ID, "Sofa")

	_, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.donate.ToggleRequest(d.ID, bob.ID)
	require.NoError(t, err)

	// Before acceptance nobody but the donor sees contact details.
	card, err := env.donate.DonorContact(d, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, card)

	require.NoError(t, env.donate.Accept(d.ID, donor.ID, alice.ID))

	card, err = env.donate.DonorContact(d, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, donor.Contact, card.Contact)

	// Bob is still pending and sees nothing.
	card, err = env.donate.DonorContact(d, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, card)

	assert.Contains(t, env.notificationTypes(t, alice.ID), domain.NotifRequestAccepted)
}

func TestAcceptRequiresOwnershipAndExistingRequest(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")
	d := env.donation(t, donor.ID, "Bicycle")

	_, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.donate.Accept(d.ID, mallory.ID, alice.ID), ErrNotOwner)
	assert.ErrorIs(t, env.donate.Accept(d.ID, donor.ID, mallory.ID), ErrNoSuchRequest)

	require.NoError(t, env.donate.Accept(d.ID, donor.ID, alice.ID))
	assert.ErrorIs(t, env.donate.Accept(d.ID, donor.ID, alice.ID), ErrAlreadyAccepted)
}

func TestRemoveClearsAcceptanceAndAllowsReRequest(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Cookware set")

	_, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.donate.Accept(d.ID, donor.ID, alice.ID))

	require.NoError(t, env.donate.Remove(d.ID, donor.ID, alice.ID))

	// Acceptance is gone with the request row.
	card, err := env.donate.DonorContact(d, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, card)

	// Removing again is safe, and alice can request once more.
	require.NoError(t, env.donate.Remove(d.ID, donor.ID, alice.ID))
	requested, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, requested)

	assert.Contains(t, env.notificationTypes(t, alice.ID), domain.NotifRequestRemoved)
}

func TestAcceptedRequestersAreAlwaysRequesters(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, "donor")
	alice := env.user(t, "alice")
	d := env.donation(t, donor.ID, "Phone")

	_, err := env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.donate.Accept(d.ID, donor.ID, alice.ID))

	entries, err := env.donations.ListRequesters(d.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Accepted)

	// Withdrawing the request removes the acceptance with it; the accepted
	// set can never outlive the requester set.
	_, err = env.donate.ToggleRequest(d.ID, alice.ID)
	require.NoError(t, err)
	entries, err = env.donations.ListRequesters(d.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
