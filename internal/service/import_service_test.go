package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/importer"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importSchema(owner, assignee string) *importer.ImportSchema {
	return &importer.ImportSchema{
		Plan: importer.PlanImport{
			Title:     "Imported plan",
			Owner:     owner,
			StartDate: "2026-02-01",
		},
		Milestones: []importer.MilestoneImport{
			{Ref: "m1", Title: "Kickoff"},
			{Ref: "m2", Title: "Delivery"},
		},
		Initiatives: []importer.InitiativeImport{
			{MilestoneRef: "m1", Title: "Setup", Assignees: []string{assignee}},
			{MilestoneRef: "m2", Title: "Ship", Assignees: []string{assignee}},
		},
	}
}

func TestImportPlan_CreatesWholeHierarchy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewImportService(env.UoW, env.NotifySvc)

	manager := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	emp := testutil.NewTestUser("theo")
	require.NoError(t, env.Users.Create(ctx, manager))
	require.NoError(t, env.Users.Create(ctx, emp))

	result, err := svc.ImportPlanFromSchema(ctx, managerPrincipal(manager), importSchema("mara", "theo"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.MilestoneCount)
	assert.Equal(t, 2, result.InitiativeCount)

	plan, err := env.Plans.GetByID(ctx, result.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, manager.ID, plan.OwnerID, "owner name resolves to user ID")

	milestones, err := env.Milestones.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	for _, m := range milestones {
		initiatives, err := env.Initiatives.ListByMilestone(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, initiatives, 1)
		assert.Equal(t, []string{emp.ID}, initiatives[0].AssigneeIDs)
	}

	// One summary audit entry for the imported plan.
	entries, err := env.Audits.List(ctx, repository.AuditFilter{EntityType: domain.EntityPlan, EntityID: plan.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "Imported plan")

	// The assignee is notified once, not once per initiative.
	unread, err := env.Notifications.ListUnreadByUser(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, domain.NotifyAssignment, unread[0].Type)
}

func TestImportPlan_ValidationFailureTouchesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewImportService(env.UoW, env.NotifySvc)

	manager := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	require.NoError(t, env.Users.Create(ctx, manager))

	schema := importSchema("mara", "theo")
	schema.Initiatives[0].MilestoneRef = "bogus"
	schema.Initiatives[1].Assignees = nil

	_, err := svc.ImportPlanFromSchema(ctx, managerPrincipal(manager), schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")

	plans, err := env.Plans.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestImportPlan_UnknownAssigneeRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewImportService(env.UoW, env.NotifySvc)

	manager := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	require.NoError(t, env.Users.Create(ctx, manager))

	_, err := svc.ImportPlanFromSchema(ctx, managerPrincipal(manager), importSchema("mara", "nobody"))
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The plan and milestones created before the failing assignee must be
	// rolled back with it.
	plans, err := env.Plans.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestImportPlan_ForbiddenForEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewImportService(env.UoW, env.NotifySvc)

	emp := testutil.NewTestUser("theo")
	require.NoError(t, env.Users.Create(ctx, emp))

	_, err := svc.ImportPlanFromSchema(ctx,
		domain.Principal{UserID: emp.ID, Name: emp.Name, Role: domain.RoleEmployee},
		importSchema("theo", "theo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}
