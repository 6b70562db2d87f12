package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/alexanderramin/plantrack/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every repository and service over one in-memory database.
type testEnv struct {
	DB            *sql.DB
	UoW           db.UnitOfWork
	Users         repository.UserRepo
	Plans         repository.PlanRepo
	Milestones    repository.MilestoneRepo
	Initiatives   repository.InitiativeRepo
	Audits        repository.AuditLogRepo
	Notifications repository.NotificationRepo

	PlanSvc       PlanService
	MilestoneSvc  MilestoneService
	InitiativeSvc InitiativeService
	ProgressSvc   ProgressService
	CascadeSvc    CascadeService
	NotifySvc     NotificationService
	AuditSvc      AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &testEnv{
		DB:            database,
		UoW:           uow,
		Users:         repository.NewSQLiteUserRepo(database),
		Plans:         repository.NewSQLitePlanRepo(database),
		Milestones:    repository.NewSQLiteMilestoneRepo(database),
		Initiatives:   repository.NewSQLiteInitiativeRepo(database),
		Audits:        repository.NewSQLiteAuditLogRepo(database),
		Notifications: repository.NewSQLiteNotificationRepo(database),
	}
	env.NotifySvc = NewNotificationService(env.Notifications)
	env.PlanSvc = NewPlanService(env.Plans, uow, env.NotifySvc)
	env.MilestoneSvc = NewMilestoneService(env.Milestones, uow)
	env.InitiativeSvc = NewInitiativeService(env.Initiatives, uow, env.NotifySvc)
	env.ProgressSvc = NewProgressService(uow)
	env.CascadeSvc = NewCascadeService(env.Plans, env.Milestones, env.Initiatives, uow, env.NotifySvc)
	env.AuditSvc = NewAuditService(env.Audits)
	return env
}

func managerPrincipal(u *domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// seedTree creates a manager-owned plan with two milestones: the first holds
// two initiatives assigned to emp1 and emp2, the second holds one assigned to
// emp1. Returned in that order.
func seedTree(t *testing.T, env *testEnv) (manager, emp1, emp2 *domain.User, plan *domain.Plan, ms []*domain.Milestone, inits []*domain.Initiative) {
	t.Helper()
	ctx := context.Background()

	manager = testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	emp1 = testutil.NewTestUser("theo")
	emp2 = testutil.NewTestUser("ines")
	require.NoError(t, env.Users.Create(ctx, manager))
	require.NoError(t, env.Users.Create(ctx, emp1))
	require.NoError(t, env.Users.Create(ctx, emp2))

	plan = testutil.NewTestPlan(manager.ID, "Platform rebuild")
	require.NoError(t, env.Plans.Create(ctx, plan))

	m1 := testutil.NewTestMilestone(plan.ID, "Design")
	m2 := testutil.NewTestMilestone(plan.ID, "Build")
	require.NoError(t, env.Milestones.Create(ctx, m1))
	require.NoError(t, env.Milestones.Create(ctx, m2))

	i1 := testutil.NewTestInitiative(m1.ID, "Wireframes", testutil.WithAssignees(emp1.ID))
	i2 := testutil.NewTestInitiative(m1.ID, "API sketch", testutil.WithAssignees(emp2.ID))
	i3 := testutil.NewTestInitiative(m2.ID, "Scaffolding", testutil.WithAssignees(emp1.ID))
	require.NoError(t, env.Initiatives.Create(ctx, i1))
	require.NoError(t, env.Initiatives.Create(ctx, i2))
	require.NoError(t, env.Initiatives.Create(ctx, i3))

	return manager, emp1, emp2, plan, []*domain.Milestone{m1, m2}, []*domain.Initiative{i1, i2, i3}
}
