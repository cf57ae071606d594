package generation

import (
	"fmt"
	"strings"
)

// System messages for each kind of completion call.
const (
	TitleSystemPrompt         = "You are an expert QA engineer writing detailed, specific Azure DevOps test case titles. Output ONLY a JSON array of strings. No markdown, no code fences, no explanations."
	StepSystemPrompt          = "You are an expert QA engineer writing test steps whose expected results match their actions. Output ONLY a JSON array of objects. No markdown, no code fences, no explanations."
	ComprehensiveSystemPrompt = "You are a senior QA engineer. Write detailed test cases in clear, simple English. Return only valid JSON without any markdown or code fences."
)

const titlePromptTemplate = `You are creating test case titles for Azure DevOps. Generate %d DETAILED and SPECIFIC test case titles.

ACCEPTANCE CRITERIA: %q
SCENARIO TYPE: %s
FOCUS: %s

REQUIREMENTS FOR TITLES:
1. Every title MUST start with "Verify"
2. Be specific: name who acts, what they do, where, and through which screen or channel
3. Name the concrete condition, validation or data being checked
4. Maximum %d characters
5. Each title must test a DIFFERENT aspect of the acceptance criteria

GOOD EXAMPLES:
- "Verify Admin can set release dates for individual course modules through Admin App"
- "Verify students cannot access unreleased modules through direct URL manipulation"
- "Verify system prevents setting a release date in the past"

BAD EXAMPLES (too generic):
- "Verify login works"
- "Verify validation"

Return ONLY a JSON array of %d strings, without code fences:
["Verify ...", "Verify ..."]`

const stepPromptTemplate = `You are writing test steps for this test case.

TITLE: %q
ACCEPTANCE CRITERIA: %q
SCENARIO TYPE: %s

Generate EXACTLY %d test steps.

REQUIREMENTS:
1. "action" is one clear instruction naming the exact screen, button, field or link and any data to enter, with example values in quotes
2. "expected" is the specific visible result of THAT action, including messages shown and data changed
3. Every expected result must follow logically from its action
4. Use plain language a manual tester can follow

GOOD EXAMPLE:
{"action": "Select a future date in the release date picker and click 'Save Release Date'", "expected": "The release date is saved and the confirmation 'Release date set for [date]' is shown"}

BAD EXAMPLE:
{"action": "Click button", "expected": "System works"}

Return ONLY a JSON array of %d objects, without code fences:
[{"action": "...", "expected": "..."}]`

const comprehensivePromptTemplate = `You are a senior software tester. Write clear, detailed test cases in simple English.

REQUIREMENTS TO TEST:
%s

Generate test cases covering ALL of these types, with %d steps each:
%s

RULES FOR TITLES:
- Start with "Verify that"
- Be specific about what is being tested
- Example: "Verify that the user can log in when they enter a valid email and correct password"

RULES FOR STEP ACTIONS:
- Start with an action verb (Click, Enter, Type, Navigate, Select, Open)
- Name the buttons, fields and data, with example values in quotes

RULES FOR EXPECTED RESULTS:
- Start with "The system should" or "The page should"
- Describe exactly what appears on screen, including messages

Return ONLY valid JSON in this exact format, without code fences:
{
  "testCases": [
    {
      "title": "Verify that ...",
      "type": "Positive",
      "steps": [
        {"action": "...", "expected": "..."}
      ]
    }
  ]
}`

// BuildTitlePrompt asks for count titles of the given category.
func BuildTitlePrompt(criteria string, category Category, count int) string {
	return fmt.Sprintf(titlePromptTemplate, count, strings.TrimSpace(criteria), category, category.focus(), MaxTitleLength, count)
}

// BuildStepPrompt asks for stepCount steps for one title.
func BuildStepPrompt(title, criteria string, stepCount int, category Category) string {
	return fmt.Sprintf(stepPromptTemplate, title, strings.TrimSpace(criteria), category, stepCount, stepCount)
}

// BuildComprehensivePrompt asks for every category in one reply using the
// default plan.
func BuildComprehensivePrompt(criteria string) string {
	return BuildComprehensivePromptWithPlan(criteria, DefaultComprehensivePlan)
}

// BuildComprehensivePromptWithPlan asks for the quantities in plan. The step
// count of the first entry is used for every category.
func BuildComprehensivePromptWithPlan(criteria string, plan []PlanEntry) string {
	steps := 4
	if len(plan) > 0 {
		steps = plan[0].Steps
	}
	var lines []string
	for _, entry := range plan {
		lines = append(lines, fmt.Sprintf("- %d %s test cases (%s)", entry.Scenarios, entry.Category, entry.Category.focus()))
	}
	return fmt.Sprintf(comprehensivePromptTemplate, strings.TrimSpace(criteria), steps, strings.Join(lines, "\n"))
}
