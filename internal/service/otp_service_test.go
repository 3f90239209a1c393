package service

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	to   string
	code string
	sent int
}

func (m *captureMailer) SendOTP(toEmail, code string) error {
	m.to = toEmail
	m.code = code
	m.sent++
	return nil
}

func newOTPFixture(t *testing.T) (*testEnv, *OTPService, *captureMailer) {
	t.Helper()
	env := newTestEnv(t)
	mailer := &captureMailer{}
	svc := NewOTPService(env.users, mailer, 45*time.Second, 5*time.Minute)
	return env, svc, mailer
}

func TestSendOTPEnforcesCooldown(t *testing.T) {
	env, svc, mailer := newOTPFixture(t)
	env.user(t, "alice")

	now := time.Now()
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.SendOTP("alice@example.com"))
	assert.Equal(t, 1, mailer.sent)
	assert.Len(t, mailer.code, 6)

	// Inside the window the resend is refused.
	now = now.Add(30 * time.Second)
	assert.ErrorIs(t, svc.SendOTP("alice@example.com"), ErrOTPCooldown)
	assert.Equal(t, 1, mailer.sent)

	// After the window a fresh code goes out.
	now = now.Add(20 * time.Second)
	require.NoError(t, svc.SendOTP("alice@example.com"))
	assert.Equal(t, 2, mailer.sent)
}

func TestSendOTPDoesNotRevealUnknownEmails(t *testing.T) {
	_, svc, mailer := newOTPFixture(t)

	require.NoError(t, svc.SendOTP("nobody@example.com"))
	assert.Zero(t, mailer.sent)
}

func TestVerifyOTPChecksCodeAndExpiry(t *testing.T) {
	env, svc, mailer := newOTPFixture(t)
	env.user(t, "alice")

	now := time.Now()
	svc.now = func() time.Time { return now }
	require.NoError(t, svc.SendOTP("alice@example.com"))

	assert.ErrorIs(t, svc.VerifyOTP("alice@example.com", "000000"), ErrOTPInvalid)
	require.NoError(t, svc.VerifyOTP("alice@example.com", mailer.code))

	// Verification does not consume the code.
	require.NoError(t, svc.VerifyOTP("alice@example.com", mailer.code))

	now = now.Add(6 * time.Minute)
	assert.ErrorIs(t, svc.VerifyOTP("alice@example.com", mailer.code), ErrOTPInvalid)
}

func TestResetPasswordConsumesCode(t *testing.T) {
	env, svc, mailer := newOTPFixture(t)
	u := env.user(t, "alice")
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, env.users.UpdatePassword(u.ID, string(hash)))

	require.NoError(t, svc.SendOTP("alice@example.com"))
	require.NoError(t, svc.ResetPassword("alice@example.com", mailer.code, "new-password"))

	reloaded, err := env.users.GetByID(u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("new-password")))

	// The code is single use.
	assert.ErrorIs(t, svc.ResetPassword("alice@example.com", mailer.code, "again"), ErrOTPInvalid)
}

func TestOTPNormalizesEmail(t *testing.T) {
	env, svc, mailer := newOTPFixture(t)
	env.user(t, "alice")

	require.NoError(t, svc.SendOTP("  Alice@Example.com "))
	assert.Equal(t, "alice@example.com", mailer.to)
	require.NoError(t, svc.VerifyOTP("ALICE@example.com", mailer.code))
}
