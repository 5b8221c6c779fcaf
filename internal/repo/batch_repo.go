package repo

import (
	"context"
	"database/sql"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
)

// BatchRepo is the durable FIFO backing the background import queue. Rows
// survive process restarts; ordering follows the serial id.
type BatchRepo struct {
	db *sql.DB
}

func NewBatchRepo(db *sql.DB) *BatchRepo {
	return &BatchRepo{db: db}
}

func (r *BatchRepo) Enqueue(ctx context.Context, queue string, payload []byte, ctime int64) error {
	const query = `
		INSERT INTO import_batches (queue, payload, ctime)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, queue, string(payload), ctime)
	return err
}

func (r *BatchRepo) Oldest(ctx context.Context, queue string) (*model.ImportBatch, error) {
	const query = `
		SELECT id, queue, payload, ctime
		FROM import_batches
		WHERE queue = $1
		ORDER BY id ASC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, queue)
	var batch model.ImportBatch
	var payload string
	if err := row.Scan(&batch.ID, &batch.Queue, &payload, &batch.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	batch.Payload = []byte(payload)
	return &batch, nil
}

func (r *BatchRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM import_batches WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *BatchRepo) Count(ctx context.Context, queue string) (int, error) {
	const query = `SELECT COUNT(1) FROM import_batches WHERE queue = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, queue).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
