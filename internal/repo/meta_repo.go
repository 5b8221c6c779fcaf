package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/msgvault/internal/pkg/dbutil"
)

type MetaRepo struct {
	db *sql.DB
}

func NewMetaRepo(db *sql.DB) *MetaRepo {
	return &MetaRepo{db: db}
}

// InsertBatch writes every key/value pair of one message's meta mapping.
// Values are stored as-is; a key may carry multiple values.
func (r *MetaRepo) InsertBatch(ctx context.Context, messageID int64, meta map[string][]string) error {
	if len(meta) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(meta))
	for key, values := range meta {
		for _, value := range values {
			rows = append(rows, map[string]interface{}{
				"message_id": messageID,
				"meta_key":   key,
				"meta_value": value,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	sqlStr, args, err := builder.BuildInsert("message_meta", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// MapByMessageIDs fetches the meta mappings for a whole retrieval batch in
// one query.
func (r *MetaRepo) MapByMessageIDs(ctx context.Context, ids []int64) (map[int64]map[string][]string, error) {
	result := make(map[int64]map[string][]string)
	if len(ids) == 0 {
		return result, nil
	}
	where := map[string]interface{}{
		"message_id in": ids,
		"_orderby":      "id asc",
	}
	sqlStr, args, err := builder.BuildSelect("message_meta", where, []string{"message_id", "meta_key", "meta_value"})
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
		var messageID int64
		var key, value string
		if err := rows.Scan(&messageID, &key, &value); err != nil {
			return nil, err
		}
		meta := result[messageID]
		if meta == nil {
			meta = make(map[string][]string)
			result[messageID] = meta
		}
		meta[key] = append(meta[key], value)
	}
	return result, rows.Err()
}

func (r *MetaRepo) DeleteByMessageID(ctx context.Context, messageID int64) error {
	const query = `DELETE FROM message_meta WHERE message_id = $1`
	_, err := r.db.ExecContext(ctx, query, messageID)
	return err
}
