package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordRe    = regexp.MustCompile(`\w+`)
	dashRunRe = regexp.MustCompile(`^-+$`)
)

// isNoiseLine reports whether a line carries no usable content: blank,
// very short without a single letter (page numbers, stray punctuation), or
// made up entirely of fragments of one or two characters.
func isNoiseLine(line string) bool {
	content := strings.TrimSpace(line)
	if content == "" {
		return true
	}

	if len([]rune(content)) < 5 && !strings.ContainsFunc(content, unicode.IsLetter) {
		return true
	}

	words := wordRe.FindAllString(content, -1)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if len(w) > 2 {
			return false
		}
	}
	return true
}

// checkTableRow reports whether a line is a pipe-delimited table row and
// whether it is a separator row. A line qualifies as a row when it has at
// least three pipe-delimited fields, or at least two with one non-empty
// (which covers single-column rows ending in a pipe, like
// "Income Builder Fund |"). A row is a separator when its non-blank cells
// are nothing but dash runs, as in "---|---".
func checkTableRow(line string) (isRow, isSeparator bool) {
	s := strings.TrimSpace(line)
	if !strings.Contains(s, "|") {
		return false, false
	}

	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	if len(parts) < 3 {
		nonEmpty := 0
		for _, p := range parts {
			if p != "" {
				nonEmpty++
			}
		}
		if nonEmpty == 0 {
			return false, false
		}
	}

	var cells []string
	for _, p := range parts {
		if p != "" {
			cells = append(cells, p)
		}
	}
	if len(cells) == 0 {
		return true, false
	}
	for _, cell := range cells {
		if !dashRunRe.MatchString(cell) {
			return true, false
		}
	}
	return true, true
}

// needsSentenceSplitting decides whether a prose line is worth a trip to
// the sentence oracle. Headers, table remnants, labels and low-content
// lines take the fast path and are packed whole.
func needsSentenceSplitting(line string) bool {
	line = strings.TrimSpace(line)
	runes := []rune(line)

	// short lines are atomic
	if len(runes) < 50 {
		return false
	}

	// table remnants dominated by pipes or tabs
	if strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2 {
		return false
	}

	// mostly-uppercase lines are headers
	if len(runes) > 20 {
		upper := 0
		for _, r := range runes {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(len(runes)) > 0.7 {
			return false
		}
	}

	// mostly numbers and symbols
	alnum := 0
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if float64(alnum)/float64(len(runes)) < 0.5 {
		return false
	}

	// nothing that ends a sentence, nothing to split
	if !strings.ContainsAny(line, ".!?") {
		return false
	}

	return true
}
