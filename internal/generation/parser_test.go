package generation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "json_fence", raw: "```json\n[\"Verify A\"]\n```", want: `["Verify A"]`},
		{name: "upper_case_fence", raw: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare_fence", raw: "```\n[1, 2]\n```", want: `[1, 2]`},
		{name: "no_fence", raw: "  [1]  ", want: `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.raw))
		})
	}
}

func TestParser_Titles(t *testing.T) {
	p := NewParser("lenient")

	t.Run("fenced_titles", func(t *testing.T) {
		titles, err := p.Titles("```json\n[\"Verify A\", \"Verify B\"]\n```")
		require.NoError(t, err)
		assert.Equal(t, []string{"Verify A", "Verify B"}, titles)
	})

	t.Run("fenced_and_unfenced_agree", func(t *testing.T) {
		body := `["Verify the cart total updates", "check that coupons apply"]`
		fenced, err := p.Titles("```json\n" + body + "\n```")
		require.NoError(t, err)
		plain, err := p.Titles(body)
		require.NoError(t, err)
		assert.Equal(t, plain, fenced)
	})

	t.Run("prose_around_array", func(t *testing.T) {
		titles, err := p.Titles("Here are your titles:\n[\"user can log in\"]\nHope this helps.")
		require.NoError(t, err)
		assert.Equal(t, []string{"Verify user can log in"}, titles)
	})

	t.Run("normalizes_titles", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		titles, err := p.Titles(`["verify lower case prefix.", "  Admin sets a date  ", "` + long + `"]`)
		require.NoError(t, err)
		assert.Equal(t, "Verify lower case prefix", titles[0])
		assert.Equal(t, "Verify admin sets a date", titles[1])
		assert.Len(t, titles[2], MaxTitleLength)
		assert.True(t, strings.HasSuffix(titles[2], "..."))
	})

	errorCases := []struct {
		name string
		raw  string
	}{
		{name: "not_json", raw: "I cannot help with that."},
		{name: "broken_json", raw: `["Verify A", "Verify B"`},
		{name: "empty_array", raw: `[]`},
		{name: "objects_instead_of_strings", raw: `[{"title": "Verify A"}]`},
		{name: "object_instead_of_array", raw: `{"titles": ["Verify A"]}`},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Titles(tt.raw)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestParser_Steps(t *testing.T) {
	p := NewParser("")

	steps, err := p.Steps("```json\n[{\"action\": \"click 'Save'\", \"expected\": \"Saved!\"}, {\"action\": \"\"}]\n```")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, Step{Action: "Click 'Save'.", Expected: "Saved!"}, steps[0])
	assert.Equal(t, "Perform the required action.", steps[1].Action)
	assert.Equal(t, defaultExpected, steps[1].Expected)

	_, err = p.Steps(`["just a string"]`)
	assert.Error(t, err)
	_, err = p.Steps(`[]`)
	assert.Error(t, err)
}

func TestParser_LenientVersusBalanced(t *testing.T) {
	raw := `First option: ["Verify A"] and a second option: ["Verify B"]`

	_, err := NewParser("lenient").Titles(raw)
	assert.Error(t, err, "the naive slice spans both arrays")

	titles, err := NewParser("balanced").Titles(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Verify A"}, titles)
}

func TestParser_BalancedScanner(t *testing.T) {
	p := Parser{Strategy: Balanced}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "brackets_inside_strings", raw: `Result -> ["Verify [edge] case", "Verify \"quoted\" ]"] trailing ]`, want: `["Verify [edge] case", "Verify \"quoted\" ]"]`},
		{name: "nested_object", raw: `{"testCases":[{"steps":[{}]}]} extra }`, want: `{"testCases":[{"steps":[{}]}]}`},
		{name: "unterminated", raw: `["Verify A"`, wantErr: true},
		{name: "mismatched", raw: `[}`, wantErr: true},
		{name: "no_json", raw: `plain text`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Extract(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Comprehensive(t *testing.T) {
	p := NewParser("lenient")

	raw := "```json\n" + `{
  "testCases": [
    {"title": "Verify that login works with valid credentials", "type": "Positive",
     "steps": [{"action": "open the login page", "expected": "the page should load"}]},
    {"title": "login fails with a wrong password.", "type": "negative", "steps": []},
    {"title": "Verify something odd", "type": "Exploratory", "steps": []},
    {"title": "Verify untyped case", "steps": []}
  ]
}` + "\n```"

	scenarios, err := p.Comprehensive(raw)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	assert.Equal(t, Positive, scenarios[0].Category)
	assert.Equal(t, []Step{{Action: "Open the login page.", Expected: "The page should load."}}, scenarios[0].Steps)
	assert.Equal(t, Negative, scenarios[1].Category)
	assert.Equal(t, "Verify login fails with a wrong password", scenarios[1].Title)
	assert.Equal(t, Positive, scenarios[2].Category)

	bare, err := p.Comprehensive(`[{"title": "Verify A", "type": "Edge", "steps": []}]`)
	require.NoError(t, err)
	assert.Equal(t, Edge, bare[0].Category)

	_, err = p.Comprehensive(`{"testCases": []}`)
	assert.Error(t, err)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "Verify that the feature works as expected"},
		{in: "Verify A", want: "Verify A"},
		{in: "VERIFY upper case", want: "Verify upper case"},
		{in: "User resets password.", want: "Verify user resets password"},
		{in: "API returns 404", want: "Verify API returns 404"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}
