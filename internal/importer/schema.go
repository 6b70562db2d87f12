package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for plan import.
type ImportSchema struct {
	Plan        PlanImport         `json:"plan"`
	Milestones  []MilestoneImport  `json:"milestones"`
	Initiatives []InitiativeImport `json:"initiatives"`
}

// PlanImport defines the plan-level fields in the import file.
type PlanImport struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Owner       string  `json:"owner"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

// MilestoneImport defines a milestone in the import file. Refs are file-local
// handles used by initiatives to name their parent.
type MilestoneImport struct {
	Ref     string  `json:"ref"`
	Title   string  `json:"title"`
	DueDate *string `json:"due_date,omitempty"`
}

// InitiativeImport defines an initiative in the import file. Assignees are
// user names or IDs resolved against the user table at import time.
type InitiativeImport struct {
	MilestoneRef string   `json:"milestone_ref"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Assignees    []string `json:"assignees"`
}

// LoadImportSchema reads and parses a plan import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
