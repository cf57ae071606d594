package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Strategy selects how the JSON value is located in a completion.
type Strategy string

const (
	// Lenient slices from the first '[' or '{' to the last ']' or '}'.
	// Stray brackets in surrounding prose can corrupt the slice.
	Lenient Strategy = "lenient"
	// Balanced scans for the first complete top-level JSON value, skipping
	// brackets inside strings.
	Balanced Strategy = "balanced"
)

const reasonNoJSON = "no JSON value found"

var fencePattern = regexp.MustCompile("(?i)```(?:json)?\\s*")

// Parser recovers JSON from free-text completions.
type Parser struct {
	Strategy Strategy
}

// NewParser returns a parser for the named strategy; unknown names use Lenient.
func NewParser(strategy string) Parser {
	if Strategy(strings.ToLower(strategy)) == Balanced {
		return Parser{Strategy: Balanced}
	}
	return Parser{Strategy: Lenient}
}

// StripFences removes code fence markers and surrounding whitespace.
func StripFences(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// Extract returns the JSON text embedded in raw.
func (p Parser) Extract(raw string) (string, error) {
	cleaned := StripFences(raw)
	if p.Strategy == Balanced {
		return extractBalanced(cleaned, raw)
	}
	return extractLenient(cleaned, raw)
}

func extractLenient(cleaned, raw string) (string, error) {
	start := firstIndex(cleaned, "[{")
	end := strings.LastIndexAny(cleaned, "]}")
	if start < 0 || end < start {
		return "", &ParseError{Reason: reasonNoJSON, Raw: raw}
	}
	return cleaned[start : end+1], nil
}

func extractBalanced(cleaned, raw string) (string, error) {
	start := firstIndex(cleaned, "[{")
	if start < 0 {
		return "", &ParseError{Reason: reasonNoJSON, Raw: raw}
	}

	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(cleaned); i++ {
		ch := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			stack = append(stack, ch)
		case ']', '}':
			open := byte('[')
			if ch == '}' {
				open = '{'
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return "", &ParseError{Reason: fmt.Sprintf("mismatched %q at offset %d", ch, i), Raw: raw}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", &ParseError{Reason: "unterminated JSON value", Raw: raw}
}

func firstIndex(s, chars string) int {
	return strings.IndexAny(s, chars)
}

// Decode extracts and decodes the JSON value in raw into v.
func (p Parser) Decode(raw string, v any) error {
	text, err := p.Extract(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &ParseError{Reason: err.Error(), Raw: raw}
	}
	return nil
}

// Titles decodes a non-empty array of strings and cleans every title.
func (p Parser) Titles(raw string) ([]string, error) {
	var items []json.RawMessage
	if err := p.Decode(raw, &items); err != nil {
		return nil, asShapeError(err, raw, "expected an array of titles")
	}
	if len(items) == 0 {
		return nil, &ParseError{Reason: "empty title array", Raw: raw}
	}

	titles := make([]string, 0, len(items))
	for i, item := range items {
		var title string
		if err := json.Unmarshal(item, &title); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("title %d is not a string", i), Raw: raw}
		}
		titles = append(titles, CleanTitle(title))
	}
	return titles, nil
}

// Steps decodes a non-empty array of {action, expected} objects and cleans them.
func (p Parser) Steps(raw string) ([]Step, error) {
	var items []Step
	if err := p.Decode(raw, &items); err != nil {
		return nil, asShapeError(err, raw, "expected an array of {action, expected} objects")
	}
	if len(items) == 0 {
		return nil, &ParseError{Reason: "empty step array", Raw: raw}
	}

	steps := make([]Step, len(items))
	for i, s := range items {
		steps[i] = cleanStep(s)
	}
	return steps, nil
}

type comprehensiveCase struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Steps []Step `json:"steps"`
}

// Comprehensive decodes {"testCases": [...]} (or a bare array of cases) into
// scenarios. Cases with an unknown type are dropped; a missing type means Positive.
func (p Parser) Comprehensive(raw string) ([]Scenario, error) {
	text, err := p.Extract(raw)
	if err != nil {
		return nil, err
	}

	var cases []comprehensiveCase
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &cases); err != nil {
			return nil, &ParseError{Reason: err.Error(), Raw: raw}
		}
	} else {
		var envelope struct {
			TestCases []comprehensiveCase `json:"testCases"`
		}
		if err := json.Unmarshal([]byte(text), &envelope); err != nil {
			return nil, &ParseError{Reason: err.Error(), Raw: raw}
		}
		cases = envelope.TestCases
	}

	scenarios := make([]Scenario, 0, len(cases))
	for _, tc := range cases {
		category := Positive
		if tc.Type != "" {
			c, err := ParseCategory(tc.Type)
			if err != nil || c == All {
				continue
			}
			category = c
		}
		steps := make([]Step, len(tc.Steps))
		for i, s := range tc.Steps {
			steps[i] = cleanStep(s)
		}
		scenarios = append(scenarios, Scenario{
			Title:    CleanTitle(tc.Title),
			Category: category,
			Steps:    steps,
		})
	}
	if len(scenarios) == 0 {
		return nil, &ParseError{Reason: "no test cases in response", Raw: raw}
	}
	return scenarios, nil
}

// asShapeError keeps extraction errors and prefixes decode errors with the
// shape that was expected.
func asShapeError(err error, raw, expected string) error {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return &ParseError{Reason: expected, Raw: raw}
	}
	if parseErr.Reason == reasonNoJSON {
		return parseErr
	}
	return &ParseError{Reason: expected + ": " + parseErr.Reason, Raw: raw}
}
