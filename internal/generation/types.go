package generation

import (
	"strings"
	"unicode/utf8"
)

// Request limits.
const (
	MinCriteriaLength = 10
	MaxScenarioCount  = 10
	MaxStepCount      = 20
)

// Metadata is copied onto every row and never interpreted.
type Metadata struct {
	AreaPath    string   `json:"areaPath"`
	AssignedTo  string   `json:"assignedTo"`
	State       string   `json:"state"`
	Priority    string   `json:"priority"`
	Environment string   `json:"environment"`
	Platforms   []string `json:"platforms"`
}

// Request is the input to an Orchestrator.
type Request struct {
	Criteria      string
	Category      Category
	ScenarioCount int
	StepCount     int
	Metadata      Metadata
}

// Mode reports the generation mode implied by the category.
func (r Request) Mode() Mode {
	if r.Category == All {
		return ModeComprehensive
	}
	return ModeStandard
}

// Validate rejects requests the pipeline must not start on.
func (r Request) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Criteria)) < MinCriteriaLength {
		return &ValidationError{Field: "acceptanceCriteria", Message: "Acceptance criteria must be at least 10 characters"}
	}
	if r.Category == All {
		return nil
	}
	if !r.Category.Valid() {
		return &ValidationError{Field: "scenarioType", Message: "scenario type must be Positive, Negative, Boundary, Edge or All"}
	}
	if r.ScenarioCount < 1 || r.ScenarioCount > MaxScenarioCount {
		return &ValidationError{Field: "numberOfScenarios", Message: "number of scenarios must be between 1 and 10"}
	}
	if r.StepCount < 1 || r.StepCount > MaxStepCount {
		return &ValidationError{Field: "numberOfSteps", Message: "number of steps must be between 1 and 20"}
	}
	return nil
}

// Step is one action and its expected result.
type Step struct {
	Action   string `json:"action"`
	Expected string `json:"expected"`
}

// Scenario is one test case before it is flattened into rows.
type Scenario struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Steps    []Step   `json:"steps"`
}
