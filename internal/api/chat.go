package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinefeed/backend/internal/models"
	"github.com/cinefeed/backend/internal/names"
	"github.com/cinefeed/backend/internal/service"
)

// ChatHandler serves the public chat board.
type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes registers the chat routes. postLimiter applies only to
// message creation; reads are unmetered.
func (h *ChatHandler) RegisterRoutes(router *gin.Engine, postLimiter gin.HandlerFunc) {
	router.GET("/messages", h.List)
	if postLimiter != nil {
		router.POST("/messages", postLimiter, h.Post)
	} else {
		router.POST("/messages", h.Post)
	}
}

// List handles GET /messages. With ?action=whoami it only reports the
// pseudonym for the requester's IP and creates nothing.
func (h *ChatHandler) List(c *gin.Context) {
	if c.Query("action") == "whoami" {
		c.JSON(http.StatusOK, gin.H{
			"user_name": h.chat.Whoami(names.ClientIP(c.Request)),
		})
		return
	}

	limit := service.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := h.chat.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Post handles POST /messages.
func (h *ChatHandler) Post(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Normalize()

	msg, err := h.chat.Post(c.Request.Context(), req.UserName, req.Message, req.IsAnonymous, names.ClientIP(c.Request))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostMessageResponse{
		OK:        true,
		MessageID: msg.ID,
		UserName:  msg.UserName,
	})
}
