package generation

import (
	"strconv"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
)

// RowKind tells header rows from detail rows.
type RowKind string

const (
	HeaderRow RowKind = "header"
	DetailRow RowKind = "detail"
)

// Row is one line of the flat export schema.
type Row struct {
	Kind       RowKind  `json:"kind"`
	Title      string   `json:"title"`
	Category   Category `json:"category"`
	StepNumber string   `json:"stepNumber"`
	Action     string   `json:"action"`
	Expected   string   `json:"expected"`
	Metadata   Metadata `json:"metadata"`
}

// Flatten emits, per scenario, a header row followed by one detail row per step.
func Flatten(scenarios []Scenario, metadata Metadata) []Row {
	size := 0
	for _, sc := range scenarios {
		size += 1 + len(sc.Steps)
	}

	rows := make([]Row, 0, size)
	for _, sc := range scenarios {
		rows = append(rows, Row{
			Kind:     HeaderRow,
			Title:    sc.Title,
			Category: sc.Category,
			Metadata: metadata,
		})
		for i, step := range sc.Steps {
			rows = append(rows, Row{
				Kind:       DetailRow,
				Category:   sc.Category,
				StepNumber: strconv.Itoa(i + 1),
				Action:     step.Action,
				Expected:   step.Expected,
				Metadata:   metadata,
			})
		}
	}
	return rows
}

// TestCases converts rows into unsaved storage records.
func TestCases(rows []Row) []models.TestCase {
	out := make([]models.TestCase, len(rows))
	for i, r := range rows {
		tc := models.TestCase{
			Title:        r.Title,
			TestStep:     r.StepNumber,
			StepAction:   r.Action,
			StepExpected: r.Expected,
			AreaPath:     r.Metadata.AreaPath,
			AssignedTo:   r.Metadata.AssignedTo,
			State:        r.Metadata.State,
			ScenarioType: string(r.Category),
			Priority:     r.Metadata.Priority,
			Environment:  r.Metadata.Environment,
			Platforms:    append([]string(nil), r.Metadata.Platforms...),
		}
		if r.Kind == HeaderRow {
			tc.WorkItemType = models.WorkItemTypeTestCase
		}
		out[i] = tc
	}
	return out
}
