// Package clean normalizes raw extracted letter text with a fixed rule
// pipeline. The rules are heuristic and lossy (fused words are split on a
// case boundary, which also splits CamelCase names); that is an accepted
// limitation of the corpus, not something callers should try to undo.
package clean

import (
	"regexp"
	"strings"
)

var (
	digitLineRe        = regexp.MustCompile(`^\d+$`)
	asteriskRunRe      = regexp.MustCompile(`\*{5,}`)
	dotLeaderRe        = regexp.MustCompile(`\.{5,}`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
	spaceBeforePunctRe = regexp.MustCompile(`\s+([.,!?;])`)
	fusedWordRe        = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	letterOrDigitRe    = regexp.MustCompile(`[\p{L}\p{N}]`)
)

// Clean applies the normalization rules to raw text and returns a single
// normalized line. Per line: form feeds become spaces, runs of 5+ asterisks
// (section dividers) and 5+ periods (table-of-contents leaders) collapse to a
// space, and what remains is dropped if it is empty, digit-only (a page
// number), or holds no letters or digits. The page-number check runs on the
// post-collapse residue, so leader-plus-number lines like "..........1965"
// vanish in a single pass. Survivors are joined with single spaces; then
// whitespace runs collapse, whitespace before punctuation is removed, and
// fused lowercase-uppercase word boundaries are split.
//
// Clean is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\f", " ")
		line = asteriskRunRe.ReplaceAllString(line, " ")
		line = dotLeaderRe.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line == "" || digitLineRe.MatchString(line) || !letterOrDigitRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	text := strings.Join(kept, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = spaceBeforePunctRe.ReplaceAllString(text, "$1")
	text = fusedWordRe.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}
