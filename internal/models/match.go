package models

import (
	"time"

	"gorm.io/gorm"
)

// Match pairs a donation with a recipient. Exactly one of OfferID/RequestID
// is set at creation: OfferID when a recipient claims a posted donation,
// RequestID when a donor fulfils a posted request. The Snapshot* fields
// freeze the traded item's descriptive fields at match time so the match
// record survives later edits to the source listing.
type Match struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OfferID    *uint          `gorm:"index" json:"offer_id"`
	RequestID  *uint          `gorm:"index" json:"request_id"`
	DonorID    uint           `gorm:"not null;index" json:"donor_id"`
	ReceiverID uint           `gorm:"not null;index" json:"receiver_id"`
	Status     string         `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Notes      string         `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	SnapshotTitle        string `gorm:"size:255" json:"snapshot_title"`
	SnapshotCategory     string `gorm:"size:50" json:"snapshot_category"`
	SnapshotDeliveryType string `gorm:"size:20" json:"snapshot_delivery_type"`
	SnapshotDescription  string `gorm:"type:text" json:"snapshot_description"`

	Donor    User               `gorm:"foreignKey:DonorID" json:"-"`
	Receiver User               `gorm:"foreignKey:ReceiverID" json:"-"`
	History  []MatchStatusEvent `gorm:"foreignKey:MatchID" json:"history,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// MatchStatusEvent is one append-only entry in a match's status history.
// The unique (match_id, status) index makes re-recording a status a no-op.
type MatchStatusEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MatchID    uint      `gorm:"not null;index:idx_match_status,unique" json:"match_id"`
	Status     string    `gorm:"size:20;not null;index:idx_match_status,unique" json:"status"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
}

func (MatchStatusEvent) TableName() string {
	return "match_status_events"
}
