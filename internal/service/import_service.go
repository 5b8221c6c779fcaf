package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/queue"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

// ImportService is the request-side half of the import pipeline. It only
// validates, chunks and enqueues; messages are written by the queue's batch
// handler, never in the request cycle.
type ImportService struct {
	worker    *queue.Worker
	status    statusstore.Store
	batchSize int
	maxBytes  int64
}

func NewImportService(worker *queue.Worker, status statusstore.Store, batchSize int, maxBytes int64) *ImportService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ImportService{
		worker:    worker,
		status:    status,
		batchSize: batchSize,
		maxBytes:  maxBytes,
	}
}

// Enqueue decodes an uploaded export file, partitions it into fixed-size
// batches, persists them and fires an async dispatch. It returns the number
// of batches enqueued.
func (s *ImportService) Enqueue(ctx context.Context, r io.Reader) (int, error) {
	reader := io.Reader(r)
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return 0, appErr.ErrImportTooLarge
	}
	var records []model.ExportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, appErr.ErrImportInvalidJSON
	}
	if len(records) == 0 {
		// An empty file would set the in-progress flag with nothing to ever
		// clear it, so it is rejected up front.
		return 0, appErr.ErrImportEmpty
	}

	chunks := chunkRecords(records, s.batchSize)
	for _, chunk := range chunks {
		payload, err := json.Marshal(chunk)
		if err != nil {
			return 0, err
		}
		if err := s.worker.Push(ctx, payload); err != nil {
			return 0, err
		}
	}
	// No expiry: the flag is cleared by the queue's completion hook, which
	// fires exactly once per enqueued run.
	if err := s.status.Set(ctx, FlagImportState, "processing", 0); err != nil {
		return 0, err
	}
	s.worker.Dispatch()
	logutil.GetLogger(ctx).Info("import enqueued",
		zap.Int("messages", len(records)), zap.Int("batches", len(chunks)))
	return len(chunks), nil
}

func chunkRecords(records []model.ExportRecord, size int) [][]model.ExportRecord {
	if size <= 0 {
		size = 50
	}
	chunks := make([][]model.ExportRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
