package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/msgvault/internal/model"
	"github.com/xxxsen/msgvault/internal/pkg/dbutil"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
)

type ChannelRepo struct {
	db *sql.DB
}

func NewChannelRepo(db *sql.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

func (r *ChannelRepo) Create(ctx context.Context, channel *model.Channel) error {
	const query = `
		INSERT INTO channels (name, slug, ctime)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, channel.Name, channel.Slug, channel.Ctime).Scan(&channel.ID)
	if err != nil && dbutil.IsConflict(err) {
		return appErr.ErrConflict
	}
	return err
}

func (r *ChannelRepo) Get(ctx context.Context, id int64) (*model.Channel, error) {
	const query = `SELECT id, name, slug, ctime FROM channels WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	var channel model.Channel
	if err := row.Scan(&channel.ID, &channel.Name, &channel.Slug, &channel.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepo) List(ctx context.Context) ([]model.Channel, error) {
	where := map[string]interface{}{"_orderby": "id asc"}
	sqlStr, args, err := builder.BuildSelect("channels", where, []string{"id", "name", "slug", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	channels := make([]model.Channel, 0)
	for rows.Next() {
		var channel model.Channel
		if err := rows.Scan(&channel.ID, &channel.Name, &channel.Slug, &channel.Ctime); err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

// Assign replaces any existing channel association for the message. A message
// carries at most one channel.
func (r *ChannelRepo) Assign(ctx context.Context, messageID, channelID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM message_channels WHERE message_id = $1`, messageID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO message_channels (message_id, channel_id) VALUES ($1, $2)`, messageID, channelID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// MapByMessageIDs resolves the channel for a whole retrieval batch in one
// query. Messages without a channel are absent from the result.
func (r *ChannelRepo) MapByMessageIDs(ctx context.Context, ids []int64) (map[int64]int64, error) {
	result := make(map[int64]int64)
	if len(ids) == 0 {
		return result, nil
	}
	where := map[string]interface{}{
		"message_id in": ids,
		"_orderby":      "channel_id asc",
	}
	sqlStr, args, err := builder.BuildSelect("message_channels", where, []string{"message_id", "channel_id"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var messageID, channelID int64
		if err := rows.Scan(&messageID, &channelID); err != nil {
			return nil, err
		}
		if _, ok := result[messageID]; !ok {
			result[messageID] = channelID
		}
	}
	return result, rows.Err()
}
