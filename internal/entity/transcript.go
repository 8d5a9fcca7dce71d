package entity

import "time"

type TranscriptEntry struct {
	ID                   string      `json:"id"`
	Text                 string      `json:"text"`
	IsFromUser           bool        `json:"is_from_user"`
	Timestamp            time.Time   `json:"timestamp"`
	AssociatedKind       *IntentKind `json:"associated_kind,omitempty"`
	RequiresConfirmation bool        `json:"requires_confirmation"`
}

// CommandRecord is one executed decision kept in the audit log.
type CommandRecord struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Intent            string    `json:"intent"`
	Confidence        float64   `json:"confidence"`
	NeedsConfirmation bool      `json:"needs_confirmation"`
	Success           bool      `json:"success"`
	Message           string    `json:"message"`
	CreatedAt         time.Time `json:"created_at"`
}
