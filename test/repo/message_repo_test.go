package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/msgvault/internal/model"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
	"github.com/xxxsen/msgvault/test/testutil"
)

func seedMessage(t *testing.T, messages *repo.MessageRepo, title, content, createdAt string) *model.Message {
	t.Helper()
	msg := &model.Message{
		Title:     title,
		Content:   content,
		Status:    model.MessageStatusPublished,
		CreatedAt: createdAt,
	}
	require.NoError(t, messages.Insert(context.Background(), msg))
	return msg
}

func TestMessageRepoDateRangeFilter(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(conn)
	ctx := context.Background()

	seedMessage(t, messages, "jan", "c1", "2026-01-15 10:00:00")
	seedMessage(t, messages, "feb-early", "c2", "2026-02-01 00:00:00")
	seedMessage(t, messages, "feb-late", "c3", "2026-02-28 23:59:59")
	seedMessage(t, messages, "mar", "c4", "2026-03-01 00:00:00")

	filter := repo.MessageFilter{StartDate: "2026-02-01", EndDate: "2026-02-28"}
	count, err := messages.CountPublished(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	list, err := messages.ListPublished(ctx, filter, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "feb-early", list[0].Title)
	require.Equal(t, "feb-late", list[1].Title)

	count, err = messages.CountPublished(ctx, repo.MessageFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestMessageRepoListPublishedPagination(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(conn)
	ctx := context.Background()

	for _, title := range []string{"m1", "m2", "m3"} {
		seedMessage(t, messages, title, "body", "2026-01-01 00:00:00")
	}

	page, err := messages.ListPublished(ctx, repo.MessageFilter{}, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "m1", page[0].Title)

	page, err = messages.ListPublished(ctx, repo.MessageFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "m3", page[0].Title)
}

func TestMessageRepoListPublishedByTitles(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(conn)
	ctx := context.Background()

	seedMessage(t, messages, "wanted", "body", "2026-01-01 00:00:00")
	seedMessage(t, messages, "other", "body", "2026-01-01 00:00:00")

	list, err := messages.ListPublishedByTitles(ctx, []string{"wanted", "missing"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "wanted", list[0].Title)

	list, err = messages.ListPublishedByTitles(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMetaRepoRoundTrip(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(conn)
	meta := repo.NewMetaRepo(conn)
	ctx := context.Background()

	msg := seedMessage(t, messages, "with-meta", "body", "2026-01-01 00:00:00")
	require.NoError(t, meta.InsertBatch(ctx, msg.ID, map[string][]string{
		"serial_number": {"42"},
		"recipients":    {"a@example.com", "b@example.com"},
	}))

	byID, err := meta.MapByMessageIDs(ctx, []int64{msg.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"42"}, byID[msg.ID]["serial_number"])
	require.Len(t, byID[msg.ID]["recipients"], 2)
}

func TestChannelRepoAssignReplaces(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	messages := repo.NewMessageRepo(conn)
	channels := repo.NewChannelRepo(conn)
	ctx := context.Background()

	msg := seedMessage(t, messages, "routed", "body", "2026-01-01 00:00:00")
	first := &model.Channel{Name: "Inbox", Slug: "inbox", Ctime: timeutil.NowUnix()}
	second := &model.Channel{Name: "Archive", Slug: "archive", Ctime: timeutil.NowUnix()}
	require.NoError(t, channels.Create(ctx, first))
	require.NoError(t, channels.Create(ctx, second))

	require.NoError(t, channels.Assign(ctx, msg.ID, first.ID))
	require.NoError(t, channels.Assign(ctx, msg.ID, second.ID))

	byID, err := channels.MapByMessageIDs(ctx, []int64{msg.ID})
	require.NoError(t, err)
	require.Equal(t, second.ID, byID[msg.ID])
}
