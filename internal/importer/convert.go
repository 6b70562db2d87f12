package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/google/uuid"
)

// GeneratedPlan is the converted, persistable form of an import file. Owner
// and assignee references are left as raw strings for the service layer to
// resolve against the user table.
type GeneratedPlan struct {
	Plan        *domain.Plan
	Milestones  []*domain.Milestone
	Initiatives []*domain.Initiative

	OwnerRef     string
	AssigneeRefs map[string][]string // initiativeID -> raw assignee refs
}

// Convert turns a validated schema into domain entities with fresh IDs.
func Convert(schema *ImportSchema) (*GeneratedPlan, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse(dateLayout, schema.Plan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	priority := domain.PriorityMedium
	if schema.Plan.Priority != "" {
		priority = domain.Priority(schema.Plan.Priority)
	}

	plan := &domain.Plan{
		ID:          uuid.New().String(),
		Title:       schema.Plan.Title,
		Description: schema.Plan.Description,
		Priority:    priority,
		Status:      domain.StatusPlanned,
		StartDate:   startDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if schema.Plan.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *schema.Plan.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing end_date: %w", err)
		}
		plan.EndDate = &endDate
	}

	generated := &GeneratedPlan{
		Plan:         plan,
		OwnerRef:     schema.Plan.Owner,
		AssigneeRefs: make(map[string][]string, len(schema.Initiatives)),
	}

	milestoneIDs := make(map[string]string, len(schema.Milestones))
	for _, m := range schema.Milestones {
		milestone := &domain.Milestone{
			ID:        uuid.New().String(),
			PlanID:    plan.ID,
			Title:     m.Title,
			Status:    domain.StatusPlanned,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if m.DueDate != nil {
			dueDate, err := time.Parse(dateLayout, *m.DueDate)
			if err != nil {
				return nil, fmt.Errorf("parsing due_date for milestone %q: %w", m.Ref, err)
			}
			milestone.DueDate = &dueDate
		}
		milestoneIDs[m.Ref] = milestone.ID
		generated.Milestones = append(generated.Milestones, milestone)
	}

	for _, init := range schema.Initiatives {
		initiative := &domain.Initiative{
			ID:          uuid.New().String(),
			MilestoneID: milestoneIDs[init.MilestoneRef],
			Title:       init.Title,
			Description: init.Description,
			Status:      domain.StatusPlanned,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		generated.AssigneeRefs[initiative.ID] = init.Assignees
		generated.Initiatives = append(generated.Initiatives, initiative)
	}

	return generated, nil
}
