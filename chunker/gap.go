package chunker

import "strings"

// fillerWords are generic column headers that show up as stray single-word
// lines inside reconstructed tables. They carry no information once the
// table has been flattened to pipe-delimited rows.
var fillerWords = map[string]bool{
	"capital":      true,
	"allocation":   true,
	"aggressive":   true,
	"moderate":     true,
	"conservative": true,
}

// compressTableGaps repairs a defect of joining pieces with blank lines:
// a table interrupted by page boundaries or stray labels ends up with
// noisy multi-line gaps between its rows. Gaps longer than the configured
// threshold are reduced to their meaningful lines, keeping at most one
// blank separator.
func (c *Chunker) compressTableGaps(chunk string) string {
	lines := strings.Split(chunk, "\n")
	cleaned := make([]string, 0, len(lines))

	i := 0
	for i < len(lines) {
		line := lines[i]
		cleaned = append(cleaned, line)

		if isRow, _ := checkTableRow(line); !isRow {
			i++
			continue
		}

		// collect the gap up to the next table row
		var gap []string
		j := i + 1
		foundNext := false
		for j < len(lines) {
			if isRow, _ := checkTableRow(lines[j]); isRow {
				foundNext = true
				break
			}
			gap = append(gap, lines[j])
			j++
		}

		if !foundNext {
			// no further table rows; keep the remainder untouched
			cleaned = append(cleaned, gap...)
			break
		}

		if len(gap) > c.gapThreshold {
			cleaned = append(cleaned, meaningfulGapLines(gap)...)
		} else {
			cleaned = append(cleaned, gap...)
		}
		i = j
	}

	return strings.Join(cleaned, "\n")
}

// meaningfulGapLines filters an excessive gap down to lines with
// substantial content, collapsing the rest into at most one blank
// separator.
func meaningfulGapLines(gap []string) []string {
	var kept []string
	for _, g := range gap {
		t := strings.TrimSpace(g)
		switch {
		case t != "" && len(t) > 10 && !fillerWords[strings.ToLower(t)]:
			kept = append(kept, g)
		case t == "":
			if len(kept) == 0 || strings.TrimSpace(kept[len(kept)-1]) != "" {
				kept = append(kept, "")
			}
		}
	}

	for _, k := range kept {
		if strings.TrimSpace(k) != "" {
			return kept
		}
	}
	return []string{""}
}
