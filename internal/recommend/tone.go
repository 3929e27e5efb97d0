package recommend

import (
	"fmt"
	"strings"
	"unicode"
)

// shamingPhrases is the fixed blocklist of judgmental keywords and absolute
// phrases. Matching is case-insensitive substring.
var shamingPhrases = []string{
	"irresponsible",
	"reckless",
	"careless",
	"lazy",
	"foolish",
	"shameful",
	"wasteful",
	"bad with money",
	"you always",
	"you never",
	"you failed",
	"your fault",
}

// supportiveMarkers: at least one must appear for the text to read as
// guidance rather than a verdict.
var supportiveMarkers = []string{
	"consider",
	"could",
	"might",
	"you can",
	"option",
	"help",
	"try",
	"opportunity",
	"worth",
}

// CheckTone validates rationale text against the tone gate. A non-nil
// error names the first violated rule; in the hot path failing items are
// dropped, never rewritten.
func CheckTone(text string) error {
	lower := strings.ToLower(text)

	for _, phrase := range shamingPhrases {
		if strings.Contains(lower, phrase) {
			return fmt.Errorf("contains blocked phrase %q", phrase)
		}
	}

	supportive := false
	for _, marker := range supportiveMarkers {
		if strings.Contains(lower, marker) {
			supportive = true
			break
		}
	}
	if !supportive {
		return fmt.Errorf("no supportive language marker found")
	}

	if strings.Count(text, "!") > 1 {
		return fmt.Errorf("more than one exclamation mark")
	}

	if run := allCapsRun(text); run != "" {
		return fmt.Errorf("contains all-caps run %q", run)
	}
	return nil
}

// allCapsRun returns the first run of two or more consecutive all-caps
// words, or "". Single acronyms such as "APR" are tolerated; shouting is a
// sequence.
func allCapsRun(text string) string {
	words := strings.Fields(text)
	runStart := -1
	for i, w := range words {
		if isCapsWord(w) {
			if runStart == -1 {
				runStart = i
			}
			if i-runStart >= 1 {
				return strings.Join(words[runStart:i+1], " ")
			}
			continue
		}
		runStart = -1
	}
	return ""
}

func isCapsWord(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}
