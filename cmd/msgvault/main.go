package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/config"
	"github.com/xxxsen/msgvault/internal/db"
	"github.com/xxxsen/msgvault/internal/filestore"
	"github.com/xxxsen/msgvault/internal/handler"
	"github.com/xxxsen/msgvault/internal/job"
	"github.com/xxxsen/msgvault/internal/middleware"
	"github.com/xxxsen/msgvault/internal/queue"
	"github.com/xxxsen/msgvault/internal/repo"
	"github.com/xxxsen/msgvault/internal/schedule"
	"github.com/xxxsen/msgvault/internal/service"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "msgvault",
		Short: "msgvault message archive server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run msgvault server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	messageRepo := repo.NewMessageRepo(conn)
	metaRepo := repo.NewMetaRepo(conn)
	channelRepo := repo.NewChannelRepo(conn)
	batchRepo := repo.NewBatchRepo(conn)

	status, locker, err := buildStatusAndLocker(cfg.Redis)
	if err != nil {
		return err
	}

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	batchHandler := service.NewBatchHandler(messageRepo, metaRepo, channelRepo, status)
	worker := queue.NewWorker(
		"message_import",
		batchRepo,
		locker,
		batchHandler,
		time.Duration(cfg.Sync.LeaseTTLSeconds)*time.Second,
	)

	exportService := service.NewExportService(
		messageRepo, metaRepo, channelRepo, status, store,
		cfg.BaseURL,
		cfg.Sync.ExportBatchSize,
		time.Duration(cfg.Sync.CountCacheTTLSeconds)*time.Second,
	)
	importService := service.NewImportService(worker, status, cfg.Sync.ImportBatchSize, cfg.Sync.ImportMaxBytes)
	messageService := service.NewMessageService(messageRepo, metaRepo, channelRepo)
	channelService := service.NewChannelService(channelRepo)
	authService := service.NewAuthService(
		cfg.AdminPasswordHash,
		[]byte(cfg.JWTSecret),
		time.Hour*time.Duration(cfg.JWTTTLHours),
	)

	nonceSecret := []byte(cfg.JWTSecret)
	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Export:    handler.NewExportHandler(exportService, nonceSecret),
		Import:    handler.NewImportHandler(importService, nonceSecret, cfg.Sync.ImportMaxBytes),
		Notices:   handler.NewNoticeHandler(status, nonceSecret),
		Messages:  handler.NewMessageHandler(messageService),
		Channels:  handler.NewChannelHandler(channelService),
		Files:     handler.NewFileHandler(store),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewImportTickJob(worker), cfg.Sync.TickSpec); err != nil {
		return err
	}
	cleanupAge := time.Duration(cfg.Sync.ExportMaxAgeHours) * time.Hour
	if err := scheduler.AddJob(job.NewExportCleanupJob(store, cleanupAge), "0 * * * *"); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// buildStatusAndLocker wires redis-backed flag and lease stores when redis is
// configured, falling back to in-process implementations for single-node
// deployments.
func buildStatusAndLocker(cfg config.RedisConfig) (statusstore.Store, queue.Locker, error) {
	if cfg.Host == "" {
		return statusstore.NewMemory(), queue.NewMemoryLocker(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return statusstore.NewRedis(client), queue.NewRedisLocker(client), nil
}
