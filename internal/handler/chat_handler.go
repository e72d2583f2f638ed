package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/services"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/transport/httpdto"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

type ChatHandler struct {
	service *services.ChatService
	log     *logger.Logger
}

func NewChatHandler(service *services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, log: log}
}

// GetMessages handles GET /api/messages/:otherUserId.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
		return
	}
	otherUserID, err := uuid.Parse(c.Param("otherUserId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id"))
		return
	}

	messages, err := h.service.FetchHistory(c.Request.Context(), callerID, otherUserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.FromMessageSlice(messages))
}

// GetConversations handles GET /api/messages/conversations.
func (h *ChatHandler) GetConversations(c *gin.Context) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
		return
	}

	views, err := h.service.ListConversations(c.Request.Context(), callerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]httpdto.ConversationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, httpdto.FromConversation(v.Conversation, v.Participants))
	}
	c.JSON(http.StatusOK, out)
}

// SendMessage handles POST /api/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request"))
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid recipient id"))
		return
	}

	in := services.SendMessageInput{
		SenderID:    callerID,
		RecipientID: recipientID,
		Text:        req.Message,
	}
	if req.Img != "" {
		data, contentType, err := services.DecodeImagePayload(req.Img)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid image payload"))
			return
		}
		in.ImageData = data
		in.ImageContentType = contentType
	}

	msg, err := h.service.SendMessage(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.FromMessage(msg))
}

// DeleteMessages handles DELETE /api/messages/:otherUserId.
func (h *ChatHandler) DeleteMessages(c *gin.Context) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
		return
	}
	otherUserID, err := uuid.Parse(c.Param("otherUserId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id"))
		return
	}

	if err := h.service.DeleteConversation(c.Request.Context(), callerID, otherUserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.AckResponse{Message: "Messages deleted successfully"})
}

func (h *ChatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRecipientNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Recipient not found"))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Conversation not found"))
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrTooLarge):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
	default:
		if h.log != nil {
			h.log.Errorf("request failed: %v", err)
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error()))
	}
}
