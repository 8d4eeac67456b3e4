// internal/handlers/chat.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/services"
	"github.com/skillswap/skillswap-backend/internal/stream"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ChatHandler struct {
	chatService *services.ChatService
	collector   *metrics.Collector
}

func NewChatHandler(chatService *services.ChatService, collector *metrics.Collector) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		collector:   collector,
	}
}

// GET /v1/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch conversations")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"conversations": conversations,
	})
}

// POST /v1/conversations
func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	conversation, err := h.chatService.FindOrCreateConversation(userID, req.ParticipantID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"conversation": conversation,
	})
}

// GET /v1/conversations/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	messages, err := h.chatService.ListMessages(conversationID, userID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"messages": messages,
	})
}

// POST /v1/conversations/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), conversationID, userID, &req)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
	})
}

// POST /v1/conversations/:id/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	if err := h.chatService.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		h.respondChatError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Conversation marked read",
	})
}

// GET /v1/conversations/:id/stream
//
// Server-Sent Events. Every change to the conversation triggers a full
// re-queried message snapshot; the stream ends when the client
// disconnects.
func (h *ChatHandler) StreamConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	sub, err := h.chatService.WatchConversation(conversationID, userID)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	defer sub.Cancel()

	h.collector.StreamOpened()
	defer h.collector.StreamClosed()

	snapshot := func() (interface{}, error) {
		messages, err := h.chatService.ListMessages(conversationID, userID)
		if err != nil {
			return nil, err
		}
		return gin.H{"messages": messages}, nil
	}

	h.streamSnapshots(c, sub, snapshot)
}

// GET /v1/conversations/stream
func (h *ChatHandler) StreamInbox(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub := h.chatService.WatchInbox(userID)
	defer sub.Cancel()

	h.collector.StreamOpened()
	defer h.collector.StreamClosed()

	snapshot := func() (interface{}, error) {
		conversations, err := h.chatService.ListConversations(userID)
		if err != nil {
			return nil, err
		}
		return gin.H{"conversations": conversations}, nil
	}

	h.streamSnapshots(c, sub, snapshot)
}

// streamSnapshots emits the current snapshot immediately, then once per
// wake-up, until the client goes away or the subscription dies.
func (h *ChatHandler) streamSnapshots(c *gin.Context, sub *stream.Subscription, snapshot func() (interface{}, error)) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(w io.Writer) bool {
		data, err := snapshot()
		if err != nil {
			return false
		}
		c.SSEvent("snapshot", data)
		return true
	}

	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			return send(w)
		}

		select {
		case <-c.Request.Context().Done():
			return false
		case <-sub.Wake:
			return send(w)
		}
	})
}

func (h *ChatHandler) respondChatError(c *gin.Context, err error) {
	switch err.Error() {
	case "conversation not found":
		utils.NotFoundResponse(c, "conversation")
	case "you are not a participant in this conversation":
		utils.ForbiddenResponse(c, err.Error())
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
