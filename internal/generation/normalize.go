package generation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxTitleLength = 128

	defaultAction   = "Perform the required action."
	defaultExpected = "The system should respond as described in the acceptance criteria."
	defaultTitle    = "Verify that the feature works as expected"
)

// CleanTitle trims a title, forces the "Verify" prefix, drops a trailing
// period and caps the length at MaxTitleLength characters.
func CleanTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return defaultTitle
	}
	if strings.HasPrefix(strings.ToLower(t), "verify") {
		t = "Verify" + t[len("verify"):]
	} else {
		t = "Verify " + lowerFirstWord(t)
	}
	t = strings.TrimSuffix(t, ".")
	return truncateRunes(t, MaxTitleLength)
}

// CleanStepText trims text, capitalizes it and terminates it with a period
// unless it already ends in sentence punctuation. Empty text becomes fallback.
func CleanStepText(text, fallback string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return fallback
	}
	t = upperFirst(t)
	if !strings.HasSuffix(t, ".") && !strings.HasSuffix(t, "!") && !strings.HasSuffix(t, "?") {
		t += "."
	}
	return t
}

func cleanStep(s Step) Step {
	return Step{
		Action:   CleanStepText(s.Action, defaultAction),
		Expected: CleanStepText(s.Expected, defaultExpected),
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirstWord lowercases a leading capital so "User can log in" reads
// "Verify user can log in". Acronyms are left alone.
func lowerFirstWord(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	next, _ := utf8.DecodeRuneInString(s[size:])
	if unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// truncateRunes caps s at limit characters, marking the cut with "...".
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// shorten cuts s to n characters and appends "..." when it was longer.
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
