package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/queue"
	"github.com/xxxsen/msgvault/internal/repo"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

func TestChunkRecords(t *testing.T) {
	records := make([]model.ExportRecord, 123)
	chunks := chunkRecords(records, 50)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 50)
	require.Len(t, chunks[1], 50)
	require.Len(t, chunks[2], 23)

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	require.Equal(t, len(records), total)
}

func TestChunkRecordsExactMultiple(t *testing.T) {
	chunks := chunkRecords(make([]model.ExportRecord, 100), 50)
	require.Len(t, chunks, 2)
	require.Len(t, chunks[1], 50)
}

func TestEnqueueRejectsInvalidInput(t *testing.T) {
	imports := NewImportService(nil, statusstore.NewMemory(), 50, 1024)
	ctx := context.Background()

	_, err := imports.Enqueue(ctx, strings.NewReader(`{"not":"an array"}`))
	require.ErrorIs(t, err, appErr.ErrImportInvalidJSON)

	_, err = imports.Enqueue(ctx, strings.NewReader(`not json at all`))
	require.ErrorIs(t, err, appErr.ErrImportInvalidJSON)

	_, err = imports.Enqueue(ctx, strings.NewReader(`[]`))
	require.ErrorIs(t, err, appErr.ErrImportEmpty)

	big := `[{"post_title":"` + strings.Repeat("x", 2048) + `"}]`
	_, err = imports.Enqueue(ctx, strings.NewReader(big))
	require.ErrorIs(t, err, appErr.ErrImportTooLarge)
}

func TestEnqueuePersistsFixedSizeBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	locker := queue.NewMemoryLocker()
	status := statusstore.NewMemory()
	worker := queue.NewWorker("message_import", repo.NewBatchRepo(db), locker, nil, time.Minute)

	// Park the lease so the async dispatch is a no-op and the expectations
	// below stay deterministic.
	_, ok, err := locker.Acquire(context.Background(), "msgvault:queue:message_import:lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec("INSERT INTO import_batches").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO import_batches").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO import_batches").WillReturnResult(sqlmock.NewResult(3, 1))

	imports := NewImportService(worker, status, 2, 0)
	payload := `[
		{"post_title":"a","post_content":"1","post_date":"2026-01-01 00:00:00","channel_id":0},
		{"post_title":"b","post_content":"2","post_date":"2026-01-01 00:00:00","channel_id":0},
		{"post_title":"c","post_content":"3","post_date":"2026-01-01 00:00:00","channel_id":0},
		{"post_title":"d","post_content":"4","post_date":"2026-01-01 00:00:00","channel_id":0},
		{"post_title":"e","post_content":"5","post_date":"2026-01-01 00:00:00","channel_id":0}
	]`
	batches, err := imports.Enqueue(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, 3, batches)

	state, err := status.Get(context.Background(), FlagImportState)
	require.NoError(t, err)
	require.Equal(t, "processing", state)
	require.NoError(t, mock.ExpectationsWereMet())
}
