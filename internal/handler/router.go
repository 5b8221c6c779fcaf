package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/msgvault/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Notices   *NoticeHandler
	Messages  *MessageHandler
	Channels  *ChannelHandler
	Files     *FileHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/login", deps.Auth.Login)
	api.GET("/files/:key", deps.Files.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/sync/nonce", deps.Notices.Nonce)
	authGroup.GET("/sync/notices", deps.Notices.Notices)
	authGroup.GET("/sync/export/count", deps.Export.Count)
	authGroup.POST("/sync/export", deps.Export.Export)
	authGroup.POST("/sync/import", deps.Import.Upload)

	authGroup.POST("/messages", deps.Messages.Create)
	authGroup.GET("/messages", deps.Messages.List)
	authGroup.GET("/messages/:id", deps.Messages.Get)
	authGroup.DELETE("/messages/:id", deps.Messages.Delete)

	authGroup.POST("/channels", deps.Channels.Create)
	authGroup.GET("/channels", deps.Channels.List)
}
