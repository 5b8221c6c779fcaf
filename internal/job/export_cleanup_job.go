package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/filestore"
)

type localDirStore interface {
	Dir() string
}

// ExportCleanupJob removes export files that outlived their download window.
// The download link stops being advertised within minutes of an export, so
// anything older than maxAge is orphaned.
// Only the local backend is scanned; object stores handle expiry with bucket
// lifecycle rules.
type ExportCleanupJob struct {
	store  filestore.Store
	maxAge time.Duration
}

func NewExportCleanupJob(store filestore.Store, maxAge time.Duration) *ExportCleanupJob {
	return &ExportCleanupJob{store: store, maxAge: maxAge}
}

func (j *ExportCleanupJob) Name() string {
	return "export_cleanup"
}

func (j *ExportCleanupJob) Run(ctx context.Context) error {
	local, ok := j.store.(localDirStore)
	if !ok {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(local.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	logger := logutil.GetLogger(ctx)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "messages") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(local.Dir(), name)); err != nil {
			logger.Warn("remove stale export failed", zap.String("file", name), zap.Error(err))
			continue
		}
		logger.Info("stale export removed", zap.String("file", name))
	}
	return nil
}
