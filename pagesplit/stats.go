package pagesplit

import "sync"

// SelectorCount tracks how often an indicator rule fired.
type SelectorCount struct {
	// Documents is the number of documents in which the rule matched at
	// least once.
	Documents int
	// Elements is the total number of elements the rule matched.
	Elements int
}

var (
	statsMu       sync.Mutex
	selectorStats = map[string]*SelectorCount{}
)

// recordSelector accumulates per-rule hit counts across the life of the
// process. Useful when chunking large filing batches to see which
// page-break idioms actually occur in the wild.
func recordSelector(rule string, elements int) {
	if elements == 0 {
		return
	}
	statsMu.Lock()
	defer statsMu.Unlock()

	c, ok := selectorStats[rule]
	if !ok {
		c = &SelectorCount{}
		selectorStats[rule] = c
	}
	c.Documents++
	c.Elements += elements
}

// Stats returns a copy of the accumulated selector statistics.
func Stats() map[string]SelectorCount {
	statsMu.Lock()
	defer statsMu.Unlock()

	out := make(map[string]SelectorCount, len(selectorStats))
	for rule, c := range selectorStats {
		out[rule] = *c
	}
	return out
}

// ResetStats clears the accumulated selector statistics.
func ResetStats() {
	statsMu.Lock()
	defer statsMu.Unlock()
	selectorStats = map[string]*SelectorCount{}
}
