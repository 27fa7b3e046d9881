// Package textnorm provides text sanitization for SEC filing content.
//
// Filing text arrives full of artifacts: Unicode homoglyphs from PDF-to-HTML
// conversion, exotic dash variants, control characters, and inconsistent
// whitespace. Sanitize normalizes all of these into a stable plain-text form
// that the chunking pipeline can reason about. Sanitize is pure, total and
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s) for every string s.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Unicode dash variants: hyphen, non-breaking hyphen, figure dash,
	// en dash, em dash, minus sign.
	dashRe = regexp.MustCompile(`[\x{2010}\x{2011}\x{2012}\x{2013}\x{2014}\x{2212}]`)

	// "$ 100" -> "$100". Go's regexp has no lookahead, so the digit is
	// captured and restored in the replacement.
	dollarRe = regexp.MustCompile(`\$\s+(\d)`)

	horizontalWSRe = regexp.MustCompile(`[ \t]+`)
	aroundNLRe     = regexp.MustCompile(`[ \t]+\n|\n[ \t]+`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)

	bulletRe       = regexp.MustCompile(`[\x{2022}\x{25AA}\x{25CB}]`)
	cjkBracketRe   = regexp.MustCompile(`[\x{3010}\x{3011}\x{3016}\x{3017}]`)
	trademarkRe    = regexp.MustCompile(`[\x{2122}\x{00AE}\x{00A9}]`)
)

// controlStripper removes Unicode control-category characters except
// newline and tab, which carry line and cell structure we still need.
var controlStripper = runes.Remove(runes.Predicate(func(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return unicode.In(r, unicode.C)
}))

// Sanitize normalizes raw filing text into a canonical plain-text form.
//
// Steps, in order: Unicode NFKC normalization, dash unification to ASCII
// hyphen, control-character removal, dollar-amount compaction ("$ 100" ->
// "$100"), horizontal-whitespace collapsing, trimming whitespace around
// newlines, and collapsing runs of blank lines down to a single blank line
// so paragraph boundaries survive.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFKC.String(text)
	text = dashRe.ReplaceAllString(text, "-")

	if stripped, _, err := transform.String(controlStripper, text); err == nil {
		text = stripped
	}

	text = dollarRe.ReplaceAllString(text, "$$$1")
	text = horizontalWSRe.ReplaceAllString(text, " ")
	text = aroundNLRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// CleanSECArtifacts strips glyphs that only ever appear as formatting
// noise in EDGAR filings: trademark/registered/copyright marks, pipe
// table separators, bullet list markers, CJK bracket quotes and the
// Unicode replacement character. The result is passed back through
// Sanitize.
func CleanSECArtifacts(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "�", "")
	text = trademarkRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "|", " ")
	text = bulletRe.ReplaceAllString(text, "")
	text = cjkBracketRe.ReplaceAllString(text, " ")

	return Sanitize(text)
}
