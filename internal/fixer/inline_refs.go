package fixer

import "regexp"

// In reStructuredText a single-backtick span is interpreted text, which the
// default role renders as a broken reference for code fragments. Generators
// carrying over Markdown habits produce these constantly; the fix promotes
// them to double-backtick literals.

// singleBacktickRe matches a single-backtick span that is not a role target
// (preceded by :), not already a literal, and not a reference (trailed by _).
var singleBacktickRe = regexp.MustCompile("(^|[^`:])`([^`\n]+)`([^`_]|$)")

// fixInlineRefs promotes single-backtick spans to inline literals. Adjacent
// spans share boundary characters with the regexp, so the replacement loops
// until the content is stable.
func fixInlineRefs(content string) (string, int) {
	n := 0
	for {
		replaced := 0
		content = singleBacktickRe.ReplaceAllStringFunc(content, func(m string) string {
			sub := singleBacktickRe.FindStringSubmatch(m)
			replaced++
			return sub[1] + "``" + sub[2] + "``" + sub[3]
		})
		if replaced == 0 {
			return content, n
		}
		n += replaced
	}
}
