package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/nonce"
	"github.com/xxxsen/msgvault/internal/pkg/response"
	"github.com/xxxsen/msgvault/internal/service"
)

type ExportHandler struct {
	export      *service.ExportService
	nonceSecret []byte
}

func NewExportHandler(export *service.ExportService, nonceSecret []byte) *ExportHandler {
	return &ExportHandler{export: export, nonceSecret: nonceSecret}
}

// Count returns the number of messages a prospective export would contain.
// The body is the bare number so the date-range picker can poll it cheaply.
func (h *ExportHandler) Count(c *gin.Context) {
	count, err := h.export.Count(c.Request.Context(), exportOptions(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.String(200, strconv.Itoa(count))
}

type exportRequest struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	All       bool   `json:"export_all" form:"export_all"`
	Nonce     string `json:"_nonce" form:"_nonce"`
}

func (h *ExportHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, appErr.ErrInvalid)
		return
	}
	if !nonce.Verify(h.nonceSecret, ActionExport, getUserID(c), req.Nonce, time.Now()) {
		handleError(c, appErr.ErrBadNonce)
		return
	}
	result, err := h.export.Export(c.Request.Context(), service.ExportOptions{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		All:       req.All,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func exportOptions(c *gin.Context) service.ExportOptions {
	return service.ExportOptions{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		All:       c.Query("export_all") == "true",
	}
}
