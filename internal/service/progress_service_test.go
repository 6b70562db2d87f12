package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMilestoneWithInitiatives(t *testing.T, env *testEnv, statuses ...domain.Status) *domain.Milestone {
	t.Helper()
	ctx := context.Background()

	owner := testutil.NewTestUser("owner", testutil.WithRole(domain.RoleManager))
	require.NoError(t, env.Users.Create(ctx, owner))
	plan := testutil.NewTestPlan(owner.ID, "Plan")
	require.NoError(t, env.Plans.Create(ctx, plan))
	m := testutil.NewTestMilestone(plan.ID, "Milestone")
	require.NoError(t, env.Milestones.Create(ctx, m))

	for idx, status := range statuses {
		i := testutil.NewTestInitiative(m.ID, "Initiative",
			testutil.WithInitiativeStatus(status),
			testutil.WithAssignees(owner.ID))
		i.Title = i.Title + "-" + string(rune('a'+idx))
		require.NoError(t, env.Initiatives.Create(ctx, i))
	}
	return m
}

func TestRecompute_NoInitiatives(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env)

	result, err := env.ProgressSvc.Recompute(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CompletionPercent)
	assert.Equal(t, domain.StatusPlanned, result.Status)
}

func TestRecompute_PartialCompletion(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env,
		domain.StatusCompleted, domain.StatusInProgress, domain.StatusPlanned, domain.StatusPlanned)

	result, err := env.ProgressSvc.Recompute(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.CompletionPercent)
	assert.Equal(t, domain.StatusInProgress, result.Status)

	stored, err := env.Milestones.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.CompletionPercent)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestRecompute_AllCompleted(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env, domain.StatusCompleted, domain.StatusCompleted)

	result, err := env.ProgressSvc.Recompute(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.CompletionPercent)
	assert.Equal(t, domain.StatusCompleted, result.Status)
}

func TestRecompute_CancelledInitiativesStayInDenominator(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env,
		domain.StatusCompleted, domain.StatusCancelled)

	// A cancelled initiative is still part of the milestone's scope: one of
	// two done is 50%, and the milestone must not read COMPLETED.
	result, err := env.ProgressSvc.Recompute(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.CompletionPercent)
	assert.Equal(t, domain.StatusInProgress, result.Status)
}

func TestRecompute_OnlyCancelledInitiatives(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env, domain.StatusCancelled)

	// Nothing completed, so the milestone sits at zero.
	result, err := env.ProgressSvc.Recompute(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CompletionPercent)
	assert.Equal(t, domain.StatusPlanned, result.Status)
}

func TestRecompute_CancelledMilestoneIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	m := seedMilestoneWithInitiatives(t, env, domain.StatusCompleted)
	ctx := context.Background()

	require.NoError(t, env.Milestones.UpdateProgress(ctx, m.ID, 40, domain.StatusCancelled, time.Now().UTC()))

	result, err := env.ProgressSvc.Recompute(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.CompletionPercent, "cancellation freezes progress")
	assert.Equal(t, domain.StatusCancelled, result.Status)
}
