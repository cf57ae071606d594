package models

import "time"

// WorkItemTypeTestCase marks header rows in an Azure DevOps test case import.
const WorkItemTypeTestCase = "Test Case"

// TestCase is one stored row: either a test case header or one of its steps.
type TestCase struct {
	ID           string    `json:"_id" yaml:"_id"`
	WorkItemID   string    `json:"id" yaml:"id"`
	WorkItemType string    `json:"workItemType" yaml:"workItemType"`
	Title        string    `json:"title" yaml:"title"`
	TestStep     string    `json:"testStep" yaml:"testStep"`
	StepAction   string    `json:"stepAction" yaml:"stepAction"`
	StepExpected string    `json:"stepExpected" yaml:"stepExpected"`
	AreaPath     string    `json:"areaPath" yaml:"areaPath"`
	AssignedTo   string    `json:"assignedTo" yaml:"assignedTo"`
	State        string    `json:"state" yaml:"state"`
	ScenarioType string    `json:"scenarioType" yaml:"scenarioType"`
	Priority     string    `json:"priority" yaml:"priority"`
	Environment  string    `json:"environment" yaml:"environment"`
	Platforms    []string  `json:"platforms" yaml:"platforms"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// IsHeader reports whether the row starts a new test case.
func (tc TestCase) IsHeader() bool {
	return tc.WorkItemType == WorkItemTypeTestCase
}

// TestCaseUpdate carries the editable fields of a row. Nil fields are left unchanged.
type TestCaseUpdate struct {
	WorkItemID   *string   `json:"id,omitempty"`
	Title        *string   `json:"title,omitempty"`
	TestStep     *string   `json:"testStep,omitempty"`
	StepAction   *string   `json:"stepAction,omitempty"`
	StepExpected *string   `json:"stepExpected,omitempty"`
	AreaPath     *string   `json:"areaPath,omitempty"`
	AssignedTo   *string   `json:"assignedTo,omitempty"`
	State        *string   `json:"state,omitempty"`
	ScenarioType *string   `json:"scenarioType,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	Environment  *string   `json:"environment,omitempty"`
	Platforms    *[]string `json:"platforms,omitempty"`
}

// Apply merges the non-nil fields of u into tc.
func (u TestCaseUpdate) Apply(tc *TestCase) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&tc.WorkItemID, u.WorkItemID)
	set(&tc.Title, u.Title)
	set(&tc.TestStep, u.TestStep)
	set(&tc.StepAction, u.StepAction)
	set(&tc.StepExpected, u.StepExpected)
	set(&tc.AreaPath, u.AreaPath)
	set(&tc.AssignedTo, u.AssignedTo)
	set(&tc.State, u.State)
	set(&tc.ScenarioType, u.ScenarioType)
	set(&tc.Priority, u.Priority)
	set(&tc.Environment, u.Environment)
	if u.Platforms != nil {
		tc.Platforms = append([]string(nil), (*u.Platforms)...)
	}
}

// Statistics summarizes the stored rows.
type Statistics struct {
	Total          int            `json:"total"`
	HeaderCount    int            `json:"headerCount"`
	StepCount      int            `json:"stepCount"`
	ByScenarioType map[string]int `json:"byScenarioType"`
	ByPriority     map[string]int `json:"byPriority"`
	ByState        map[string]int `json:"byState"`
}

// NewStatistics folds rows into a Statistics value.
func NewStatistics(rows []TestCase) *Statistics {
	stats := &Statistics{
		ByScenarioType: map[string]int{},
		ByPriority:     map[string]int{},
		ByState:        map[string]int{},
	}
	for _, tc := range rows {
		stats.Total++
		if tc.IsHeader() {
			stats.HeaderCount++
		} else if tc.WorkItemType == "" {
			stats.StepCount++
		}
		if tc.ScenarioType != "" {
			stats.ByScenarioType[tc.ScenarioType]++
		}
		if tc.Priority != "" {
			stats.ByPriority[tc.Priority]++
		}
		if tc.State != "" {
			stats.ByState[tc.State]++
		}
	}
	return stats
}
