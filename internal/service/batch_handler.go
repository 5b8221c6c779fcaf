package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

// BatchHandler is the queue-side half of the import pipeline: one invocation
// imports one batch, skipping every message whose (title, body) hash already
// exists. Retrying a batch in full is therefore safe.
type BatchHandler struct {
	messages *repo.MessageRepo
	meta     *repo.MetaRepo
	channels *repo.ChannelRepo
	status   statusstore.Store
}

func NewBatchHandler(messages *repo.MessageRepo, meta *repo.MetaRepo, channels *repo.ChannelRepo, status statusstore.Store) *BatchHandler {
	return &BatchHandler{
		messages: messages,
		meta:     meta,
		channels: channels,
		status:   status,
	}
}

func (h *BatchHandler) ProcessOne(ctx context.Context, payload json.RawMessage) error {
	var records []model.ExportRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	// First occurrence wins for duplicates within the batch itself.
	seen := make(map[string]struct{}, len(records))
	unique := make([]model.ExportRecord, 0, len(records))
	titles := make([]string, 0, len(records))
	for _, record := range records {
		hash := contentHash(record.Title, record.Content)
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		unique = append(unique, record)
		titles = append(titles, strings.TrimSpace(record.Title))
	}

	// Bulk existence probe: one IN query per batch, then hash the candidates
	// with the same fingerprint the export side used.
	existing, err := h.messages.ListPublishedByTitles(ctx, titles)
	if err != nil {
		return err
	}
	existingHashes := make(map[string]struct{}, len(existing))
	for _, msg := range existing {
		existingHashes[contentHash(msg.Title, msg.Content)] = struct{}{}
	}

	logger := logutil.GetLogger(ctx)
	for _, record := range unique {
		hash := contentHash(record.Title, record.Content)
		if _, ok := existingHashes[hash]; ok {
			continue
		}
		msg := model.Message{
			Title:     strings.TrimSpace(record.Title),
			Content:   record.Content,
			Status:    model.MessageStatusPublished,
			AuthorID:  parseAuthor(record.Author),
			CreatedAt: normalizeDate(record.Date),
		}
		if err := h.messages.Insert(ctx, &msg); err != nil {
			// Best-effort import: a failed insert is skipped, not retried.
			logger.Warn("import insert failed, skipping message",
				zap.String("title", msg.Title), zap.Error(err))
			continue
		}
		existingHashes[hash] = struct{}{}
		if err := h.meta.InsertBatch(ctx, msg.ID, record.Meta); err != nil {
			logger.Warn("import meta write failed",
				zap.Int64("message_id", msg.ID), zap.Error(err))
		}
		h.assignChannel(ctx, msg.ID, record.ChannelID)
	}
	return nil
}

// OnComplete is the single point where the asynchronous import reports back
// to the UI layer: the in-progress flag is cleared and a completion flag set
// for the next notice poll to take.
func (h *BatchHandler) OnComplete(ctx context.Context) {
	if err := h.status.Delete(ctx, FlagImportState); err != nil {
		logutil.GetLogger(ctx).Warn("clear import state flag failed", zap.Error(err))
	}
	if err := h.status.Set(ctx, FlagImportDone, "completed", 0); err != nil {
		logutil.GetLogger(ctx).Warn("set import done flag failed", zap.Error(err))
	}
}

func (h *BatchHandler) assignChannel(ctx context.Context, messageID, channelID int64) {
	if channelID <= 0 {
		return
	}
	if _, err := h.channels.Get(ctx, channelID); err != nil {
		if !appErr.IsNotFound(err) {
			logutil.GetLogger(ctx).Warn("channel lookup failed",
				zap.Int64("channel_id", channelID), zap.Error(err))
		}
		return
	}
	if err := h.channels.Assign(ctx, messageID, channelID); err != nil {
		logutil.GetLogger(ctx).Warn("channel assign failed",
			zap.Int64("message_id", messageID), zap.Int64("channel_id", channelID), zap.Error(err))
	}
}

func parseAuthor(value string) int64 {
	author, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || author < 0 {
		return 0
	}
	return author
}

func normalizeDate(value string) string {
	if timeutil.IsDateTime(value) {
		return value
	}
	return timeutil.FormatDateTime(time.Now())
}
