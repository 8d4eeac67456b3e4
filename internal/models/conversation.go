// internal/models/conversation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation holds exactly two participants. ParticipantA/B are stored
// in insertion order; membership checks treat them as a set.
type Conversation struct {
	BaseModel
	ParticipantA uuid.UUID `json:"participant_a" gorm:"type:uuid;not null;index:idx_conversation_pair,unique"`
	ParticipantB uuid.UUID `json:"participant_b" gorm:"type:uuid;not null;index:idx_conversation_pair,unique"`

	// Last-message snapshot so the inbox renders without loading messages.
	LastMessage   string     `json:"last_message,omitempty" gorm:"type:text"`
	LastSenderID  *uuid.UUID `json:"last_sender_id,omitempty" gorm:"type:uuid"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" gorm:"index"`

	// Per-participant unread counters, cleared when a participant marks
	// the conversation read.
	UnreadA int64 `json:"unread_a" gorm:"default:0"`
	UnreadB int64 `json:"unread_b" gorm:"default:0"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the peer of userID, or uuid.Nil when userID is
// not a participant.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return uuid.Nil
}

// Message is append-only: never edited, never deleted.
type Message struct {
	BaseModel
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Read           bool      `json:"read" gorm:"default:false"`

	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
