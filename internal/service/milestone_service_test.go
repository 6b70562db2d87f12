package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneCreate_UnderCancelledPlanRejected(t *testing.T) {
	env := newTestEnv(t)
	manager, _, _, plan, _, _ := seedTree(t, env)
	ctx := context.Background()

	_, err := env.CascadeSvc.Cancel(ctx, managerPrincipal(manager), plan.ID, RootPlan)
	require.NoError(t, err)

	m := testutil.NewTestMilestone(plan.ID, "Too late")
	err = env.MilestoneSvc.Create(ctx, managerPrincipal(manager), m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMilestoneCreate_WritesAuditEntry(t *testing.T) {
	env := newTestEnv(t)
	manager, _, _, plan, _, _ := seedTree(t, env)
	ctx := context.Background()

	m := testutil.NewTestMilestone(plan.ID, "Launch prep")
	m.ID = ""
	require.NoError(t, env.MilestoneSvc.Create(ctx, managerPrincipal(manager), m))
	assert.NotEmpty(t, m.ID)

	entries, err := env.Audits.List(ctx, repository.AuditFilter{EntityType: domain.EntityMilestone, EntityID: m.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreate, entries[0].Action)
	assert.Contains(t, entries[0].Details, plan.Title)
}

func TestMilestoneUpdate_StatusChangeAudited(t *testing.T) {
	env := newTestEnv(t)
	manager, _, _, _, ms, _ := seedTree(t, env)
	ctx := context.Background()

	updated := *ms[0]
	updated.Status = domain.StatusInProgress
	require.NoError(t, env.MilestoneSvc.Update(ctx, managerPrincipal(manager), &updated))

	entries, err := env.Audits.List(ctx, repository.AuditFilter{EntityType: domain.EntityMilestone, EntityID: ms[0].ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionUpdateStatus, entries[0].Action)
	require.NotNil(t, entries[0].OldValue)
	assert.Equal(t, "PLANNED", *entries[0].OldValue)
}

func TestMilestoneDelete_RemovesInitiativesBottomUp(t *testing.T) {
	env := newTestEnv(t)
	manager, _, _, _, ms, inits := seedTree(t, env)
	ctx := context.Background()

	require.NoError(t, env.MilestoneSvc.Delete(ctx, managerPrincipal(manager), ms[0].ID))

	_, err := env.Milestones.GetByID(ctx, ms[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	// Both initiatives under ms[0] are gone; the sibling milestone's survives.
	_, err = env.Initiatives.GetByID(ctx, inits[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.Initiatives.GetByID(ctx, inits[1].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	survivor, err := env.Initiatives.GetByID(ctx, inits[2].ID)
	require.NoError(t, err)
	assert.Equal(t, ms[1].ID, survivor.MilestoneID)

	entries, err := env.Audits.List(ctx, repository.AuditFilter{EntityType: domain.EntityMilestone, EntityID: ms[0].ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionDelete, entries[0].Action)
	assert.Contains(t, entries[0].Details, "2 initiatives")
}

func TestMilestoneDelete_ForbiddenForEmployee(t *testing.T) {
	env := newTestEnv(t)
	_, emp1, _, _, ms, _ := seedTree(t, env)
	ctx := context.Background()

	actor := domain.Principal{UserID: emp1.ID, Name: emp1.Name, Role: domain.RoleEmployee}
	err := env.MilestoneSvc.Delete(ctx, actor, ms[0].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.Milestones.GetByID(ctx, ms[0].ID)
	require.NoError(t, err)
}
