package handler

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/msgvault/internal/pkg/errcode"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/nonce"
	"github.com/xxxsen/msgvault/internal/pkg/response"
	"github.com/xxxsen/msgvault/internal/service"
)

type ImportHandler struct {
	imports       *service.ImportService
	nonceSecret   []byte
	maxUploadSize int64
}

func NewImportHandler(imports *service.ImportService, nonceSecret []byte, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{imports: imports, nonceSecret: nonceSecret, maxUploadSize: maxUploadSize}
}

// Upload accepts a JSON export file and queues it for background import. The
// response only confirms enqueueing; completion is reported through notices.
func (h *ImportHandler) Upload(c *gin.Context) {
	if !nonce.Verify(h.nonceSecret, ActionImport, getUserID(c), c.PostForm("_nonce"), time.Now()) {
		handleError(c, appErr.ErrBadNonce)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		response.Error(c, errcode.ErrImportTooLarge, "file too large")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".json" {
		response.Error(c, errcode.ErrInvalidFile, "json file required")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()

	batches, err := h.imports.Enqueue(c.Request.Context(), opened)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"batches": batches})
}
