package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/msgvault/internal/model"
	"github.com/xxxsen/msgvault/internal/pkg/dbutil"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
)

// MessageFilter restricts published-message queries to an inclusive day
// range. Empty bounds mean no date restriction. The same filter feeds both
// the count and retrieval queries so their predicates never diverge.
type MessageFilter struct {
	StartDate string
	EndDate   string
}

func (f MessageFilter) ranged() bool {
	return f.StartDate != "" && f.EndDate != ""
}

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func publishedWhere(filter MessageFilter) map[string]interface{} {
	where := map[string]interface{}{
		"status": model.MessageStatusPublished,
	}
	if filter.ranged() {
		where["created_at between"] = []interface{}{
			filter.StartDate + " 00:00:00",
			filter.EndDate + " 23:59:59",
		}
	}
	return where
}

func (r *MessageRepo) CountPublished(ctx context.Context, filter MessageFilter) (int, error) {
	sqlStr, args, err := builder.BuildSelect("messages", publishedWhere(filter), []string{"count(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepo) ListPublished(ctx context.Context, filter MessageFilter, limit, offset int) ([]model.Message, error) {
	where := publishedWhere(filter)
	where["_orderby"] = "id asc"
	where["_limit"] = []uint{uint(offset), uint(limit)}
	sqlStr, args, err := builder.BuildSelect("messages", where, fieldList())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryMessages(ctx, sqlStr, args)
}

// ListPublishedByTitles is the bulk existence probe behind duplicate
// detection: one IN query per batch instead of one lookup per message.
func (r *MessageRepo) ListPublishedByTitles(ctx context.Context, titles []string) ([]model.Message, error) {
	if len(titles) == 0 {
		return []model.Message{}, nil
	}
	where := map[string]interface{}{
		"status":   model.MessageStatusPublished,
		"title in": titles,
	}
	sqlStr, args, err := builder.BuildSelect("messages", where, fieldList())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryMessages(ctx, sqlStr, args)
}

func (r *MessageRepo) Insert(ctx context.Context, msg *model.Message) error {
	const query = `
		INSERT INTO messages (title, content, status, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		msg.Title,
		msg.Content,
		msg.Status,
		msg.AuthorID,
		msg.CreatedAt,
	).Scan(&msg.ID)
}

func (r *MessageRepo) Get(ctx context.Context, id int64) (*model.Message, error) {
	const query = `
		SELECT id, title, content, status, author_id, created_at
		FROM messages
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	var msg model.Message
	if err := row.Scan(&msg.ID, &msg.Title, &msg.Content, &msg.Status, &msg.AuthorID, &msg.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) List(ctx context.Context, limit, offset int) ([]model.Message, error) {
	where := map[string]interface{}{
		"_orderby": "id desc",
		"_limit":   []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("messages", where, fieldList())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryMessages(ctx, sqlStr, args)
}

func (r *MessageRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM messages WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *MessageRepo) queryMessages(ctx context.Context, sqlStr string, args []interface{}) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.Title, &msg.Content, &msg.Status, &msg.AuthorID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func fieldList() []string {
	return []string{"id", "title", "content", "status", "author_id", "created_at"}
}
