package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"` // empty for anonymous sessions
	Contact       string         `gorm:"size:50" json:"contact"`
	Address       string         `gorm:"size:255" json:"address"`
	IsAnonymous   bool           `gorm:"default:false;index" json:"is_anonymous"`
	ExpoPushToken string         `gorm:"size:255" json:"-"`
	FCMToken      string         `gorm:"size:512" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ContactCard is the contact projection revealed to accepted requesters.
// It is always resolved through a user lookup, never embedded in listings.
type ContactCard struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

func (u *User) ContactCard() ContactCard {
	return ContactCard{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Contact: u.Contact,
		Address: u.Address,
	}
}

// DisplayName falls back to the email local part when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}
