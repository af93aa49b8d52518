package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("invalid request body"))
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), identity(c).ID, c.Param("name"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": h.messageToResponse(c.Request.Context(), *msg),
	})
}

func (h *Handler) conversation(c *gin.Context) {
	ctx := c.Request.Context()
	msgs, recipient, err := h.messages.Conversation(ctx, identity(c).ID, c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]MessageResponse, len(msgs))
	for i := range msgs {
		resp[i] = h.messageToResponse(ctx, msgs[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":  resp,
		"recipient": h.recipientToResponse(ctx, recipient),
	})
}

func (h *Handler) recentConversations(c *gin.Context) {
	ctx := c.Request.Context()
	convs, err := h.messages.Recent(ctx, identity(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ConversationResponse, len(convs))
	for i := range convs {
		resp[i] = h.conversationToResponse(ctx, convs[i])
	}
	c.JSON(http.StatusOK, gin.H{"conversations": resp})
}
