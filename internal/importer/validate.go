package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks structural consistency of an import file and
// returns every problem found rather than stopping at the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Plan.Title == "" {
		errs = append(errs, fmt.Errorf("plan: title is required"))
	}
	if schema.Plan.Owner == "" {
		errs = append(errs, fmt.Errorf("plan: owner is required"))
	}
	if schema.Plan.StartDate == "" {
		errs = append(errs, fmt.Errorf("plan: start_date is required"))
	} else if _, err := time.Parse(dateLayout, schema.Plan.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("plan: invalid start_date %q", schema.Plan.StartDate))
	}
	if schema.Plan.EndDate != nil {
		if _, err := time.Parse(dateLayout, *schema.Plan.EndDate); err != nil {
			errs = append(errs, fmt.Errorf("plan: invalid end_date %q", *schema.Plan.EndDate))
		}
	}
	if p := schema.Plan.Priority; p != "" {
		if p != string(domain.PriorityLow) && p != string(domain.PriorityMedium) && p != string(domain.PriorityHigh) {
			errs = append(errs, fmt.Errorf("plan: invalid priority %q", p))
		}
	}

	refs := make(map[string]bool, len(schema.Milestones))
	for i, m := range schema.Milestones {
		if m.Ref == "" {
			errs = append(errs, fmt.Errorf("milestone[%d]: ref is required", i))
			continue
		}
		if refs[m.Ref] {
			errs = append(errs, fmt.Errorf("milestone[%d]: duplicate ref %q", i, m.Ref))
		}
		refs[m.Ref] = true
		if m.Title == "" {
			errs = append(errs, fmt.Errorf("milestone %q: title is required", m.Ref))
		}
		if m.DueDate != nil {
			if _, err := time.Parse(dateLayout, *m.DueDate); err != nil {
				errs = append(errs, fmt.Errorf("milestone %q: invalid due_date %q", m.Ref, *m.DueDate))
			}
		}
	}

	for i, init := range schema.Initiatives {
		if init.Title == "" {
			errs = append(errs, fmt.Errorf("initiative[%d]: title is required", i))
		}
		if init.MilestoneRef == "" {
			errs = append(errs, fmt.Errorf("initiative[%d]: milestone_ref is required", i))
		} else if !refs[init.MilestoneRef] {
			errs = append(errs, fmt.Errorf("initiative[%d]: unknown milestone_ref %q", i, init.MilestoneRef))
		}
		if len(init.Assignees) == 0 {
			errs = append(errs, fmt.Errorf("initiative[%d]: at least one assignee is required", i))
		}
	}

	return errs
}
