package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord_AndQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor := domain.Principal{UserID: "u1", Name: "mara", Role: domain.RoleManager}
	id, err := env.AuditSvc.Record(ctx, actor, domain.ActionCreate, domain.EntityPlan, "p1", "Created plan", nil, strPtr("Roadmap"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := env.AuditSvc.Query(ctx, repository.AuditFilter{EntityType: domain.EntityPlan, EntityID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mara", entries[0].PerformedBy)
	require.NotNil(t, entries[0].NewValue)
	assert.Equal(t, "Roadmap", *entries[0].NewValue)
	assert.Nil(t, entries[0].OldValue)
}

func TestAuditRecord_SystemPrincipalAttribution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.AuditSvc.Record(ctx, domain.SystemPrincipal, domain.ActionUpdate, domain.EntityMilestone, "m1", "Progress recompute", nil, nil)
	require.NoError(t, err)

	entries, err := env.AuditSvc.Query(ctx, repository.AuditFilter{Actor: "SYSTEM"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SYSTEM", entries[0].PerformedBy)
}
