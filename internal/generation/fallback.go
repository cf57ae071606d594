package generation

import (
	"fmt"
	"strings"
)

// FallbackScenarios builds scenarioCount canned scenarios of stepCount steps
// each. Topic templates chosen by keywords in the criteria come first, then
// the category's generic templates, then titles built from titleAspects. The
// output depends only on the arguments.
func FallbackScenarios(criteria string, category Category, scenarioCount, stepCount int) []Scenario {
	if scenarioCount <= 0 {
		return nil
	}
	if !category.Valid() {
		category = Positive
	}

	library := candidateTemplates(strings.ToLower(criteria), category)
	pool := stepPool(category)
	short := shorten(strings.TrimSpace(criteria), 60)

	scenarios := make([]Scenario, scenarioCount)
	for i := range scenarios {
		if i < len(library) {
			tpl := library[i]
			scenarios[i] = Scenario{
				Title:    CleanTitle(tpl.title),
				Category: category,
				Steps:    fitSteps(tpl.steps, pool, len(tpl.steps), stepCount),
			}
			continue
		}

		extra := i - len(library)
		aspect := titleAspects[extra%len(titleAspects)]
		title := fmt.Sprintf("Verify %s scenario where user %s for: %s", strings.ToLower(string(category)), aspect, short)
		scenarios[i] = Scenario{
			Title:    CleanTitle(title),
			Category: category,
			Steps:    fitSteps(nil, pool, extra*4, stepCount),
		}
	}
	return scenarios
}

// FallbackSteps builds stepCount steps for a single title, using the topic
// its wording matches or a generic sequence.
func FallbackSteps(title string, category Category, stepCount int) []Step {
	if !category.Valid() {
		category = Positive
	}
	pool := stepPool(category)
	if t, ok := matchTopic(strings.ToLower(title)); ok {
		base := t.templates[category].steps
		return fitSteps(base, pool, 0, stepCount)
	}
	base := []Step{relatedStep(title, category)}
	return fitSteps(base, pool, 1, stepCount)
}

// padSteps truncates steps to stepCount or fills the missing positions from
// FallbackSteps.
func padSteps(steps []Step, title string, category Category, stepCount int) []Step {
	if len(steps) >= stepCount {
		return steps[:stepCount]
	}
	filler := FallbackSteps(title, category, stepCount)
	out := make([]Step, 0, stepCount)
	out = append(out, steps...)
	return append(out, filler[len(steps):]...)
}

func candidateTemplates(lowerText string, category Category) []template {
	var library []template
	if t, ok := matchTopic(lowerText); ok {
		library = append(library, t.templates[category])
	}
	return append(library, genericTemplates[category]...)
}

func matchTopic(lowerText string) (topic, bool) {
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(lowerText, kw) {
				return t, true
			}
		}
	}
	return topic{}, false
}

// stepPool is every generic step of the category, in template order.
func stepPool(category Category) []Step {
	var pool []Step
	for _, tpl := range genericTemplates[category] {
		pool = append(pool, tpl.steps...)
	}
	return pool
}

// fitSteps returns exactly n steps: base first, then pool entries cycling
// from offset.
func fitSteps(base, pool []Step, offset, n int) []Step {
	if n <= 0 {
		return nil
	}
	out := make([]Step, 0, n)
	for _, s := range base {
		if len(out) == n {
			return out
		}
		out = append(out, s)
	}
	for k := 0; len(out) < n; k++ {
		out = append(out, pool[(offset+k)%len(pool)])
	}
	return out
}

func relatedStep(title string, category Category) Step {
	subject := strings.TrimSpace(title)
	for _, prefix := range []string{"Verify that ", "Verify "} {
		if strings.HasPrefix(subject, prefix) {
			subject = subject[len(prefix):]
			break
		}
	}
	subject = strings.TrimSuffix(shorten(subject, 80), ".")

	expected := "The action completes successfully and the expected result is achieved."
	switch category {
	case Negative:
		expected = "The action is prevented and an appropriate error message is shown."
	case Boundary:
		expected = "Values at the limit are accepted and values beyond it are rejected with a clear message."
	case Edge:
		expected = "The system handles the unusual condition without errors or data loss."
	}
	return Step{
		Action:   CleanStepText("Perform the action under test: "+subject, defaultAction),
		Expected: expected,
	}
}
