package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditEntry(action domain.AuditAction, actor string, entityType domain.EntityType, entityID string, at time.Time) *domain.AuditLogEntry {
	return &domain.AuditLogEntry{
		ID:          uuid.New().String(),
		Action:      action,
		PerformedBy: actor,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     "test entry",
		Timestamp:   at,
	}
}

func TestAuditRepo_AppendAndListByEntity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditLogRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	entry := newAuditEntry(domain.ActionUpdateStatus, "mara", domain.EntityPlan, "p1", now)
	oldStr, newStr := string(domain.StatusPlanned), string(domain.StatusCancelled)
	entry.OldValue = &oldStr
	entry.NewValue = &newStr
	require.NoError(t, repo.Append(ctx, entry))

	entries, err := repo.List(ctx, AuditFilter{EntityType: domain.EntityPlan, EntityID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionUpdateStatus, entries[0].Action)
	require.NotNil(t, entries[0].OldValue)
	require.NotNil(t, entries[0].NewValue)
	assert.Equal(t, "PLANNED", *entries[0].OldValue)
	assert.Equal(t, "CANCELLED", *entries[0].NewValue)
}

func TestAuditRepo_List_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditLogRepo(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "a", domain.EntityPlan, "p1", base)))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionUpdate, "a", domain.EntityPlan, "p1", base.Add(time.Second))))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionDelete, "a", domain.EntityPlan, "p1", base.Add(2*time.Second))))

	entries, err := repo.List(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionDelete, entries[0].Action)
	assert.Equal(t, domain.ActionCreate, entries[2].Action)
}

func TestAuditRepo_List_OrdersSubSecondAgainstWholeSecond(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditLogRepo(db)
	ctx := context.Background()

	// A whole-second timestamp must sort before a sub-second one in the same
	// second. Trimmed fractional zeros would invert this pair.
	wholeSecond := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	halfPast := wholeSecond.Add(500 * time.Millisecond)
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "a", domain.EntityPlan, "p1", wholeSecond)))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionUpdate, "a", domain.EntityPlan, "p1", halfPast)))

	entries, err := repo.List(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionUpdate, entries[0].Action)
	assert.Equal(t, domain.ActionCreate, entries[1].Action)

	// The whole-second bound must include the sub-second entry below it.
	until := halfPast
	entries, err = repo.List(ctx, AuditFilter{From: &wholeSecond, Until: &until})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAuditRepo_List_FilterByActor(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditLogRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "mara", domain.EntityPlan, "p1", now)))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "theo", domain.EntityPlan, "p2", now)))

	entries, err := repo.List(ctx, AuditFilter{Actor: "mara"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mara", entries[0].PerformedBy)
}

func TestAuditRepo_List_FilterByTimeRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditLogRepo(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "a", domain.EntityPlan, "p1", base)))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "a", domain.EntityPlan, "p2", base.Add(time.Hour))))
	require.NoError(t, repo.Append(ctx, newAuditEntry(domain.ActionCreate, "a", domain.EntityPlan, "p3", base.Add(2*time.Hour))))

	from := base.Add(30 * time.Minute)
	until := base.Add(90 * time.Minute)
	entries, err := repo.List(ctx, AuditFilter{From: &from, Until: &until})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].EntityID)
}
