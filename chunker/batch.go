package chunker

import "strings"

// segmentBatch sends all lines to the sentence oracle as one combined call
// and re-attributes the returned sentence stream to the originating lines
// by length-weighted partitioning. The attribution is an approximation:
// each line receives a share of sentences proportional to its share of the
// batch's characters, not an exact token alignment. The oracle's fixed
// per-call overhead is paid once per batch instead of once per line.
//
// The result is indexed by position in lines, so duplicate line text is
// attributed independently.
func (c *Chunker) segmentBatch(lines []string) ([][]string, error) {
	result := make([][]string, len(lines))
	if len(lines) == 0 {
		return result, nil
	}

	sents, err := c.seg.Segment(strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, s := range sents {
		if t := strings.TrimSpace(s); t != "" {
			kept = append(kept, t)
		}
	}

	total := 0
	for _, line := range lines {
		total += len(line)
	}
	if total == 0 {
		for i, line := range lines {
			result[i] = []string{line}
		}
		return result, nil
	}

	start := 0
	for i, line := range lines {
		share := len(kept) * len(line) / total
		if share < 1 {
			share = 1
		}
		end := start + share
		if end > len(kept) || i == len(lines)-1 {
			// the last line absorbs any remainder so no sentence is
			// ever dropped by the integer arithmetic
			end = len(kept)
		}
		if start < len(kept) {
			result[i] = kept[start:end]
		} else {
			// ran out of sentences; fall back to the raw line
			result[i] = []string{line}
		}
		start += share
	}
	return result, nil
}
