package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	n := testutil.NewTestNotification("u1", "hello",
		testutil.WithRelatedEntity(domain.EntityPlan, "p1"))
	require.NoError(t, repo.Create(ctx, n))

	fetched, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", fetched.Message)
	assert.Equal(t, domain.NotificationUnread, fetched.Status)
	require.NotNil(t, fetched.EntityType)
	assert.Equal(t, domain.EntityPlan, *fetched.EntityType)
	require.NotNil(t, fetched.EntityID)
	assert.Equal(t, "p1", *fetched.EntityID)
}

func TestNotificationRepo_CountUnread(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u1", "a")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u1", "b")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u1", "c",
		testutil.WithNotificationStatus(domain.NotificationRead))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u2", "d")))

	count, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	n := testutil.NewTestNotification("u1", "hello")
	require.NoError(t, repo.Create(ctx, n))

	require.NoError(t, repo.MarkRead(ctx, n.ID))
	fetched, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationRead, fetched.Status)
}

func TestNotificationRepo_MarkRead_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	err := repo.MarkRead(ctx, "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationRepo_MarkAllRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u1", "a")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u1", "b")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("u2", "other")))

	require.NoError(t, repo.MarkAllRead(ctx, "u1"))

	count, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	otherCount, err := repo.CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, otherCount, "other users' notifications must be untouched")
}

func TestNotificationRepo_ListByUser_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	first := testutil.NewTestNotification("u1", "first")
	second := testutil.NewTestNotification("u1", "second")
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
}
