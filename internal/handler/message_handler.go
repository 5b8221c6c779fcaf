package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/msgvault/internal/pkg/errcode"
	"github.com/xxxsen/msgvault/internal/pkg/response"
	"github.com/xxxsen/msgvault/internal/service"
)

type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type messageCreateRequest struct {
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	AuthorID  int64               `json:"author_id"`
	ChannelID int64               `json:"channel_id"`
	Meta      map[string][]string `json:"meta"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req messageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	detail, err := h.messages.Create(c.Request.Context(), service.MessageCreateInput{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  req.AuthorID,
		ChannelID: req.ChannelID,
		Meta:      req.Meta,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid id")
		return
	}
	detail, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *MessageHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	messages, err := h.messages.List(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"messages": messages})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid id")
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
