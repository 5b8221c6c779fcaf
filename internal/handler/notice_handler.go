package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/msgvault/internal/pkg/errcode"
	"github.com/xxxsen/msgvault/internal/pkg/nonce"
	"github.com/xxxsen/msgvault/internal/pkg/response"
	"github.com/xxxsen/msgvault/internal/service"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

type NoticeHandler struct {
	status      statusstore.Store
	nonceSecret []byte
}

func NewNoticeHandler(status statusstore.Store, nonceSecret []byte) *NoticeHandler {
	return &NoticeHandler{status: status, nonceSecret: nonceSecret}
}

// Nonce issues an action token for one of the sync mutations.
func (h *NoticeHandler) Nonce(c *gin.Context) {
	action := c.Query("action")
	if action != ActionExport && action != ActionImport {
		response.Error(c, errcode.ErrInvalid, "unknown action")
		return
	}
	token := nonce.Create(h.nonceSecret, action, getUserID(c), time.Now())
	response.Success(c, gin.H{"action": action, "nonce": token})
}

type noticePayload struct {
	ExportCount *string `json:"export_count,omitempty"`
	ExportFile  *string `json:"export_file,omitempty"`
	ImportState *string `json:"import_state,omitempty"`
	ImportDone  *string `json:"import_done,omitempty"`
}

// Notices drains the one-shot status flags. Completion flags are consumed on
// read so each shows up in exactly one poll; the in-progress flag is only
// peeked since the queue's completion hook owns clearing it.
func (h *NoticeHandler) Notices(c *gin.Context) {
	ctx := c.Request.Context()
	var payload noticePayload
	if value, err := h.status.Take(ctx, service.FlagExportCount); err == nil {
		payload.ExportCount = &value
	}
	if value, err := h.status.Take(ctx, service.FlagExportFile); err == nil {
		payload.ExportFile = &value
	}
	if value, err := h.status.Get(ctx, service.FlagImportState); err == nil {
		payload.ImportState = &value
	}
	if value, err := h.status.Take(ctx, service.FlagImportDone); err == nil {
		payload.ImportDone = &value
	}
	response.Success(c, payload)
}
