package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"havn/internal/repository"
)

var (
	ErrOTPCooldown = errors.New("verification code was sent recently")
	ErrOTPInvalid  = errors.New("invalid or expired verification code")
)

// Mailer sends the reset code to the account owner.
type Mailer interface {
	SendOTP(toEmail, code string) error
}

type otpEntry struct {
	code          string
	expiresAt     time.Time
	cooldownUntil time.Time
}

// OTPService handles the email based password reset flow. Codes live in
// memory only; a restart simply forces the user to request a fresh one.
type OTPService struct {
	users    *repository.UserRepository
	mailer   Mailer
	cooldown time.Duration
	expiry   time.Duration

	mu      sync.Mutex
	entries map[string]*otpEntry

	now func() time.Time
}

func NewOTPService(users *repository.UserRepository, mailer Mailer, cooldown, expiry time.Duration) *OTPService {
	return &OTPService{
		users:    users,
		mailer:   mailer,
		cooldown: cooldown,
		expiry:   expiry,
		entries:  make(map[string]*otpEntry),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// SendOTP generates and emails a reset code. The response is identical
// whether or not the email belongs to an account, so the endpoint cannot be
// used to probe for registered addresses. The cooldown is still enforced per
// email to keep the mailer from being hammered.
func (s *OTPService) SendOTP(email string) error {
	email = normalizeEmail(email)

	s.mu.Lock()
	now := s.now()
	if e, ok := s.entries[email]; ok && now.Before(e.cooldownUntil) {
		wait := e.cooldownUntil.Sub(now).Round(time.Second)
		s.mu.Unlock()
		return fmt.Errorf("%w: retry in %s", ErrOTPCooldown, wait)
	}
	code := generateCode()
	s.entries[email] = &otpEntry{
		code:          code,
		expiresAt:     now.Add(s.expiry),
		cooldownUntil: now.Add(s.cooldown),
	}
	s.mu.Unlock()

	if _, err := s.users.GetByEmail(email); err != nil {
		// Drop the code silently; the caller still sees success.
		log.Printf("[otp] reset requested for unknown email")
		return nil
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// VerifyOTP checks a code without consuming it, so the client can gate the
// new-password screen before the actual reset call.
func (s *OTPService) VerifyOTP(email, code string) error {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok || s.now().After(e.expiresAt) || e.code != code {
		return ErrOTPInvalid
	}
	return nil
}

// ResetPassword verifies the code and sets the new password. The stored code
// is cleared whether the reset succeeds or fails past verification, so a
// code can never be replayed.
func (s *OTPService) ResetPassword(email, code, newPassword string) error {
	email = normalizeEmail(email)

	s.mu.Lock()
	e, ok := s.entries[email]
	if !ok || s.now().After(e.expiresAt) || e.code != code {
		s.mu.Unlock()
		return ErrOTPInvalid
	}
	delete(s.entries, email)
	s.mu.Unlock()

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return ErrOTPInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(user.ID, string(hash))
}
