// internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/database"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/stream"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ChatService struct {
	db        *gorm.DB
	hub       *stream.Hub
	collector *metrics.Collector
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type StartConversationRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" validate:"required"`
}

// ConversationView decorates a conversation with the caller's unread count.
type ConversationView struct {
	models.Conversation
	UnreadCount int64     `json:"unread_count"`
	PeerID      uuid.UUID `json:"peer_id"`
}

func NewChatService(db *gorm.DB, hub *stream.Hub, collector *metrics.Collector) *ChatService {
	return &ChatService{
		db:        db,
		hub:       hub,
		collector: collector,
	}
}

// ListConversations returns the user's conversations, most recently
// active first.
func (s *ChatService) ListConversations(userID uuid.UUID) ([]ConversationView, error) {
	var conversations []models.Conversation
	if err := s.db.Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		views = append(views, s.viewFor(conv, userID))
	}
	return views, nil
}

func (s *ChatService) viewFor(conv models.Conversation, userID uuid.UUID) ConversationView {
	unread := conv.UnreadA
	if conv.ParticipantB == userID {
		unread = conv.UnreadB
	}
	return ConversationView{
		Conversation: conv,
		UnreadCount:  unread,
		PeerID:       conv.OtherParticipant(userID),
	}
}

// FindOrCreateConversation returns the conversation for the participant
// pair, creating it on first contact. Pairs are stored in a canonical
// order so (a,b) and (b,a) resolve to the same row.
func (s *ChatService) FindOrCreateConversation(userID, peerID uuid.UUID) (*ConversationView, error) {
	if userID == peerID {
		return nil, errors.New("cannot start a conversation with yourself")
	}

	var peer models.User
	if err := s.db.First(&peer, peerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	a, b := userID, peerID
	if b.String() < a.String() {
		a, b = b, a
	}

	var conv models.Conversation
	err := s.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = models.Conversation{ParticipantA: a, ParticipantB: b}
		if err := s.db.Create(&conv).Error; err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	view := s.viewFor(conv, userID)
	return &view, nil
}

func (s *ChatService) getConversation(conversationID, userID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("conversation not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.New("you are not a participant in this conversation")
	}
	return &conv, nil
}

// ListMessages returns the full message sequence oldest first.
func (s *ChatService) ListMessages(conversationID, userID uuid.UUID) ([]models.Message, error) {
	if _, err := s.getConversation(conversationID, userID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// SendMessage appends the message and refreshes the conversation snapshot
// and the recipient's unread counter in one transaction, then wakes every
// stream watching the conversation or either participant's inbox.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, req *SendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	content := utils.SanitizeText(req.Content)
	if content == "" {
		return nil, errors.New("message cannot be empty")
	}

	conv, err := s.getConversation(conversationID, senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"last_message":    content,
			"last_sender_id":  senderID,
			"last_message_at": now,
		}
		if conv.ParticipantA == senderID {
			updates["unread_b"] = gorm.Expr("unread_b + 1")
		} else {
			updates["unread_a"] = gorm.Expr("unread_a + 1")
		}

		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.collector.RecordMessageSent()

	s.hub.Publish(ctx, stream.ConversationTopic(conversationID.String()))
	s.hub.Publish(ctx, stream.InboxTopic(conv.ParticipantA.String()))
	s.hub.Publish(ctx, stream.InboxTopic(conv.ParticipantB.String()))

	return message, nil
}

// MarkRead flags the peer's messages as read and clears the caller's
// unread counter.
func (s *ChatService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	conv, err := s.getConversation(conversationID, userID)
	if err != nil {
		return err
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read = false", conversationID, userID).
			Update("read", true).Error; err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}

		column := "unread_a"
		if conv.ParticipantB == userID {
			column = "unread_b"
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update(column, 0).Error; err != nil {
			return fmt.Errorf("failed to clear unread count: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Publish(ctx, stream.InboxTopic(userID.String()))
	return nil
}

// WatchConversation subscribes to change events for one conversation after
// verifying membership. The caller owns the subscription and must Cancel it.
func (s *ChatService) WatchConversation(conversationID, userID uuid.UUID) (*stream.Subscription, error) {
	if _, err := s.getConversation(conversationID, userID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(stream.ConversationTopic(conversationID.String())), nil
}

// WatchInbox subscribes to change events across all of the user's
// conversations.
func (s *ChatService) WatchInbox(userID uuid.UUID) *stream.Subscription {
	return s.hub.Subscribe(stream.InboxTopic(userID.String()))
}
