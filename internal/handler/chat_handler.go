package handler

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/GTDGit/customer_portal/internal/middleware"
	"github.com/GTDGit/customer_portal/internal/models"
	"github.com/GTDGit/customer_portal/internal/service"
	"github.com/GTDGit/customer_portal/internal/utils"
)

type chatRequest struct {
	Message    string `json:"message" validate:"required,max=4000"`
	CustomerID string `json:"customerId" validate:"required"`
	SessionID  string `json:"sessionId" validate:"max=128"`
}

type voiceRequest struct {
	Text    string `json:"text" validate:"required,max=5000"`
	VoiceID string `json:"voiceId"`
}

// ChatHandler handles assistant chat and voice synthesis.
type ChatHandler struct {
	chatService  *service.ChatService
	voiceService *service.VoiceService
	validate     *validatorv10.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService, voiceService *service.VoiceService, validate *validatorv10.Validate) *ChatHandler {
	return &ChatHandler{chatService: chatService, voiceService: voiceService, validate: validate}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !BindAndValidate(c, &req, h.validate) {
		return
	}
	if err := service.Authorize(middleware.GetClaims(c), req.CustomerID); err != nil {
		utils.HandleError(c, err)
		return
	}

	reply, err := h.chatService.Chat(c.Request.Context(), req.CustomerID, req.Message, req.SessionID, models.ChannelChat)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, 200, "Reply generated", reply)
}

// Voice handles POST /chat/voice. An empty audioUrl means synthesis was
// unavailable.
func (h *ChatHandler) Voice(c *gin.Context) {
	var req voiceRequest
	if !BindAndValidate(c, &req, h.validate) {
		return
	}

	ref := h.voiceService.Synthesize(c.Request.Context(), req.Text, req.VoiceID)
	utils.Success(c, 200, "Voice generated", gin.H{"audioUrl": ref})
}
