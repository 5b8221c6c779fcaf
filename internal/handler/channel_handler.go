package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/msgvault/internal/pkg/errcode"
	"github.com/xxxsen/msgvault/internal/pkg/response"
	"github.com/xxxsen/msgvault/internal/service"
)

type ChannelHandler struct {
	channels *service.ChannelService
}

func NewChannelHandler(channels *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

type channelCreateRequest struct {
	Name string `json:"name"`
}

func (h *ChannelHandler) Create(c *gin.Context) {
	var req channelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	channel, err := h.channels.Create(c.Request.Context(), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, channel)
}

func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.channels.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"channels": channels})
}
