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

func TestPlanRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	owner := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	require.NoError(t, users.Create(ctx, owner))

	end := time.Now().UTC().AddDate(0, 3, 0)
	plan := testutil.NewTestPlan(owner.ID, "Q3 Launch",
		testutil.WithPriority(domain.PriorityHigh), testutil.WithEndDate(end))
	require.NoError(t, repo.Create(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, fetched.ID)
	assert.Equal(t, "Q3 Launch", fetched.Title)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.Equal(t, domain.StatusPlanned, fetched.Status)
	assert.Equal(t, owner.ID, fetched.OwnerID)
	require.NotNil(t, fetched.EndDate)
	assert.Equal(t, end.Format("2006-01-02"), fetched.EndDate.Format("2006-01-02"))
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_ListByOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	mara := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	theo := testutil.NewTestUser("theo", testutil.WithRole(domain.RoleManager))
	require.NoError(t, users.Create(ctx, mara))
	require.NoError(t, users.Create(ctx, theo))

	require.NoError(t, repo.Create(ctx, testutil.NewTestPlan(mara.ID, "A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestPlan(mara.ID, "B")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestPlan(theo.ID, "C")))

	plans, err := repo.ListByOwner(ctx, mara.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	for _, p := range plans {
		assert.Equal(t, mara.ID, p.OwnerID)
	}
}

func TestPlanRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	owner := testutil.NewTestUser("mara")
	require.NoError(t, users.Create(ctx, owner))
	plan := testutil.NewTestPlan(owner.ID, "Q3 Launch")
	require.NoError(t, repo.Create(ctx, plan))

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(ctx, plan.ID, domain.StatusCancelled, now))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, fetched.Status)
}

func TestUserRepo_List_ActiveOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, testutil.NewTestUser("ana")))
	require.NoError(t, users.Create(ctx, testutil.NewTestUser("ben",
		testutil.WithUserStatus(domain.UserInactive))))

	active, err := users.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "ana", active[0].Name)

	all, err := users.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
