package importer

import (
	"testing"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_BuildsHierarchyWithFreshIDs(t *testing.T) {
	generated, err := Convert(validSchema())
	require.NoError(t, err)

	assert.NotEmpty(t, generated.Plan.ID)
	assert.Equal(t, "Release train", generated.Plan.Title)
	assert.Equal(t, domain.PriorityHigh, generated.Plan.Priority)
	assert.Equal(t, domain.StatusPlanned, generated.Plan.Status)
	assert.Equal(t, "mara", generated.OwnerRef)

	require.Len(t, generated.Milestones, 2)
	for _, m := range generated.Milestones {
		assert.Equal(t, generated.Plan.ID, m.PlanID)
		assert.Equal(t, domain.StatusPlanned, m.Status)
	}

	require.Len(t, generated.Initiatives, 1)
	init := generated.Initiatives[0]
	assert.Equal(t, generated.Milestones[0].ID, init.MilestoneID, "milestone_ref resolves to the generated ID")
	assert.Equal(t, []string{"theo"}, generated.AssigneeRefs[init.ID])
}

func TestConvert_DefaultsPriorityToMedium(t *testing.T) {
	schema := validSchema()
	schema.Plan.Priority = ""

	generated, err := Convert(schema)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, generated.Plan.Priority)
}

func TestConvert_ParsesEndAndDueDates(t *testing.T) {
	schema := validSchema()
	end := "2026-06-30"
	due := "2026-03-01"
	schema.Plan.EndDate = &end
	schema.Milestones[0].DueDate = &due

	generated, err := Convert(schema)
	require.NoError(t, err)
	require.NotNil(t, generated.Plan.EndDate)
	assert.Equal(t, "2026-06-30", generated.Plan.EndDate.Format(dateLayout))
	require.NotNil(t, generated.Milestones[0].DueDate)
	assert.Equal(t, "2026-03-01", generated.Milestones[0].DueDate.Format(dateLayout))
}
