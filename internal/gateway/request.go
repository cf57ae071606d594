package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
)

// Request defaults.
const (
	DefaultScenarioType = "Positive"
	DefaultScenarios    = 3
	DefaultSteps        = 4
	DefaultPriority     = "High"
	DefaultEnvironment  = "Testing"
	DefaultState        = "New"
	DefaultAssignedTo   = "Unassigned"
	DefaultAreaPath     = "Subscription/Billing/Data"
)

// DefaultPlatforms is used when a request names no platforms.
var DefaultPlatforms = []string{"Web"}

// count accepts a JSON number or a numeric string.
type count int

func (n *count) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		v, err := strconv.Atoi(num.String())
		if err != nil {
			return fmt.Errorf("%s is not a whole number", num)
		}
		*n = count(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number")
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	*n = count(v)
	return nil
}

// GenerateRequest is the body of a generate call.
type GenerateRequest struct {
	AcceptanceCriteria string   `json:"acceptanceCriteria"`
	ScenarioType       string   `json:"scenarioType"`
	NumberOfScenarios  *count   `json:"numberOfScenarios" swaggertype:"integer"`
	NumberOfSteps      *count   `json:"numberOfSteps" swaggertype:"integer"`
	Priority           string   `json:"priority"`
	Environment        string   `json:"environment"`
	Platforms          []string `json:"platforms"`
	State              string   `json:"state"`
	AssignedTo         string   `json:"assignedTo"`
	AreaPath           string   `json:"areaPath"`
}

// toRequest applies defaults and validates the body.
func (r GenerateRequest) toRequest() (generation.Request, error) {
	if strings.TrimSpace(r.AcceptanceCriteria) == "" {
		return generation.Request{}, &generation.ValidationError{Field: "acceptanceCriteria", Message: "Acceptance criteria is required"}
	}

	scenarioType := r.ScenarioType
	if strings.TrimSpace(scenarioType) == "" {
		scenarioType = DefaultScenarioType
	}
	category, err := generation.ParseCategory(scenarioType)
	if err != nil {
		return generation.Request{}, err
	}

	req := generation.Request{
		Criteria:      r.AcceptanceCriteria,
		Category:      category,
		ScenarioCount: DefaultScenarios,
		StepCount:     DefaultSteps,
		Metadata: generation.Metadata{
			AreaPath:    orDefault(r.AreaPath, DefaultAreaPath),
			AssignedTo:  orDefault(r.AssignedTo, DefaultAssignedTo),
			State:       orDefault(r.State, DefaultState),
			Priority:    orDefault(r.Priority, DefaultPriority),
			Environment: orDefault(r.Environment, DefaultEnvironment),
			Platforms:   r.Platforms,
		},
	}
	if r.NumberOfScenarios != nil {
		req.ScenarioCount = int(*r.NumberOfScenarios)
	}
	if r.NumberOfSteps != nil {
		req.StepCount = int(*r.NumberOfSteps)
	}
	if len(req.Metadata.Platforms) == 0 {
		req.Metadata.Platforms = append([]string(nil), DefaultPlatforms...)
	}

	if err := req.Validate(); err != nil {
		return generation.Request{}, err
	}
	return req, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
