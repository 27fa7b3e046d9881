package tagging

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Result is the structured outcome of tagging one chunk.
type Result struct {
	Summary string            `json:"summary"`
	Tags    map[string]string `json:"tags"`
}

var (
	jsonBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRe  = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

	summaryHeadRe  = regexp.MustCompile(`(?is)summary:\s*\n?(.*?)(?:\n-|\ntags:|\n\*\*|$)`)
	firstParaRe    = regexp.MustCompile("(?is)^(.*?)(?:\n-|\n\\*\\*|tags:|```)")
	whitespaceRe   = regexp.MustCompile(`\s+`)
	boldBulletRe   = regexp.MustCompile(`(?im)^[-*•]\s*\*\*(.*?)\*\*:\s*(.*?)\s*$`)
	plainBulletRe  = regexp.MustCompile(`(?im)^[-*•]\s*(.*?):\s*(.*?)\s*$`)
	tagKeyCleanRe  = regexp.MustCompile(`[\s-]+`)
	minSummaryRune = 50
)

// ParseResponse turns a raw model response into a Result. Models answer in
// one of three shapes despite the prompt's template: a JSON object inside a
// markdown code fence, a bare JSON object, or the requested
// summary-plus-bullets text. All three are accepted.
func ParseResponse(text string) Result {
	if r, ok := tryParseJSON(text); ok {
		return r
	}
	return parseMarkdown(text)
}

func tryParseJSON(text string) (Result, bool) {
	var jsonStr, before string

	if m := jsonBlockRe.FindStringSubmatchIndex(text); m != nil {
		jsonStr = text[m[2]:m[3]]
		before = strings.TrimSpace(text[:m[0]])
	} else if loc := bareJSONRe.FindStringIndex(text); loc != nil {
		jsonStr = text[loc[0]:loc[1]]
		before = strings.TrimSpace(text[:loc[0]])
	} else {
		return Result{}, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return Result{}, false
	}

	r := Result{Tags: map[string]string{}}
	if s, ok := data["summary"]; ok {
		r.Summary = stringify(s)
	} else if before != "" {
		r.Summary = squashWhitespace(before)
	}
	for k, v := range data {
		if k != "summary" {
			r.Tags[normalizeTagKey(k)] = normalizeTagValue(stringify(v))
		}
	}
	return r, true
}

func parseMarkdown(text string) Result {
	r := Result{
		Summary: extractSummary(text),
		Tags:    map[string]string{},
	}

	for _, re := range []*regexp.Regexp{boldBulletRe, plainBulletRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			key := normalizeTagKey(m[1])
			if key == "" {
				continue
			}
			r.Tags[key] = normalizeTagValue(m[2])
		}
	}
	return r
}

func extractSummary(text string) string {
	for _, re := range []*regexp.Regexp{summaryHeadRe, firstParaRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			summary := squashWhitespace(m[1])
			if len([]rune(summary)) > minSummaryRune {
				return summary
			}
		}
	}
	return ""
}

func normalizeTagKey(key string) string {
	key = strings.Trim(strings.TrimSpace(key), `"'*`)
	key = strings.ToLower(key)
	return tagKeyCleanRe.ReplaceAllString(key, "_")
}

func normalizeTagValue(value string) string {
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	switch strings.ToLower(value) {
	case "", "not provided", "none", "n/a":
		return ""
	}
	return value
}

// stringify flattens a decoded JSON value to the string form tags use:
// lists become comma-separated, everything else renders with fmt.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func squashWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
