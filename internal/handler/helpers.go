package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/middleware"
	"github.com/xxxsen/msgvault/internal/pkg/errcode"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/response"
)

// Nonce actions for the two state-changing sync endpoints.
const (
	ActionExport = "message-export"
	ActionImport = "message-import"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrBadNonce):
		response.Error(c, errcode.ErrBadNonce, "invalid or expired nonce")
	case errors.Is(err, appErr.ErrImportInvalidJSON):
		response.Error(c, errcode.ErrImportInvalidJSON, "file is not a valid message export")
	case errors.Is(err, appErr.ErrImportEmpty):
		response.Error(c, errcode.ErrImportEmpty, "file contains no messages")
	case errors.Is(err, appErr.ErrImportTooLarge):
		response.Error(c, errcode.ErrImportTooLarge, "file too large")
	case errors.Is(err, appErr.ErrExportWriteFailed):
		response.Error(c, errcode.ErrExportFailed, "export file write failed")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
