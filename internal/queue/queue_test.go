package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/msgvault/internal/repo"
)

type stubHandler struct {
	payloads    []string
	failPayload string
	completions int
}

func (h *stubHandler) ProcessOne(ctx context.Context, payload json.RawMessage) error {
	h.payloads = append(h.payloads, string(payload))
	if h.failPayload != "" && string(payload) == h.failPayload {
		return errors.New("boom")
	}
	return nil
}

func (h *stubHandler) OnComplete(ctx context.Context) {
	h.completions++
}

func batchRows(id int64, payload string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "queue", "payload", "ctime"}).
		AddRow(id, "message_import", payload, int64(1700000000))
}

func expectEmpty(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT id, queue, payload, ctime").
		WillReturnRows(sqlmock.NewRows([]string{"id", "queue", "payload", "ctime"}))
}

func TestWorkerDrainProcessesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := &stubHandler{}
	worker := NewWorker("message_import", repo.NewBatchRepo(db), NewMemoryLocker(), handler, time.Minute)

	mock.ExpectQuery("SELECT id, queue, payload, ctime").WillReturnRows(batchRows(1, `["a"]`))
	mock.ExpectExec("DELETE FROM import_batches").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, queue, payload, ctime").WillReturnRows(batchRows(2, `["b"]`))
	mock.ExpectExec("DELETE FROM import_batches").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	expectEmpty(mock)

	require.NoError(t, worker.Drain(context.Background()))
	require.Equal(t, []string{`["a"]`, `["b"]`}, handler.payloads)
	require.Equal(t, 1, handler.completions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerDrainDropsFailedBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := &stubHandler{failPayload: `["bad"]`}
	worker := NewWorker("message_import", repo.NewBatchRepo(db), NewMemoryLocker(), handler, time.Minute)

	mock.ExpectQuery("SELECT id, queue, payload, ctime").WillReturnRows(batchRows(1, `["bad"]`))
	mock.ExpectExec("DELETE FROM import_batches").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, queue, payload, ctime").WillReturnRows(batchRows(2, `["ok"]`))
	mock.ExpectExec("DELETE FROM import_batches").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	expectEmpty(mock)

	require.NoError(t, worker.Drain(context.Background()))
	require.Equal(t, []string{`["bad"]`, `["ok"]`}, handler.payloads)
	require.Equal(t, 1, handler.completions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerDrainNoCompletionOnEmptyQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := &stubHandler{}
	worker := NewWorker("message_import", repo.NewBatchRepo(db), NewMemoryLocker(), handler, time.Minute)

	expectEmpty(mock)

	require.NoError(t, worker.Drain(context.Background()))
	require.Empty(t, handler.payloads)
	require.Zero(t, handler.completions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerDrainSkipsWhenLeaseHeld(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	locker := NewMemoryLocker()
	handler := &stubHandler{}
	worker := NewWorker("message_import", repo.NewBatchRepo(db), locker, handler, time.Minute)

	_, ok, err := locker.Acquire(context.Background(), worker.lockKey(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, worker.Drain(context.Background()))
	require.Empty(t, handler.payloads)
	require.Zero(t, handler.completions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerDrainStopsOnCanceledContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := &stubHandler{}
	worker := NewWorker("message_import", repo.NewBatchRepo(db), NewMemoryLocker(), handler, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, worker.Drain(ctx))
	require.Empty(t, handler.payloads)
	require.Zero(t, handler.completions)
	require.NoError(t, mock.ExpectationsWereMet())
}
