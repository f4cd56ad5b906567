package ai

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"shelfaware/internal/domain"
)

// MaxInsights caps how many insights a single completion may contribute.
const MaxInsights = 5

var ErrNoInsights = errors.New("ai: no usable insights in completion")

// rawInsight tolerates the shapes models actually emit: priority as a
// number, a numeric string, or low/medium/high.
type rawInsight struct {
	Category string          `json:"category"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Priority json.RawMessage `json:"priority"`
	Action   string          `json:"action"`
}

type insightEnvelope struct {
	Insights []rawInsight `json:"insights"`
}

// ParseInsights runs the full normalization pipeline over a raw
// completion: fence stripping, JSON extraction, repair, decode, and
// field coercion. It returns ErrNoInsights when nothing usable remains.
func ParseInsights(completion string) ([]domain.Insight, error) {
	payload, ok := ExtractJSON(completion)
	if !ok {
		return nil, ErrNoInsights
	}
	payload = Repair(payload)

	var raws []rawInsight
	if strings.HasPrefix(payload, "[") {
		if err := json.Unmarshal([]byte(payload), &raws); err != nil {
			return nil, ErrNoInsights
		}
	} else {
		var env insightEnvelope
		if err := json.Unmarshal([]byte(payload), &env); err != nil {
			return nil, ErrNoInsights
		}
		raws = env.Insights
	}

	out := make([]domain.Insight, 0, len(raws))
	for _, r := range raws {
		title := strings.TrimSpace(r.Title)
		body := strings.TrimSpace(r.Body)
		if title == "" || body == "" {
			continue
		}
		out = append(out, domain.Insight{
			Category: strings.ToLower(strings.TrimSpace(r.Category)),
			Title:    title,
			Body:     body,
			Priority: coercePriority(r.Priority),
			Action:   strings.TrimSpace(r.Action),
		})
		if len(out) == MaxInsights {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInsights
	}
	return out, nil
}

// ExtractJSON strips markdown fences and returns the first balanced
// JSON object or array in s.
func ExtractJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) > 2 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		} else {
			s = strings.Trim(s, "`")
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inStr := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Repair fixes the habitual LLM JSON defects: smart quotes and trailing
// commas before a closing brace or bracket.
func Repair(s string) string {
	r := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	s = r.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inStr {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		if ch == '"' {
			inStr = true
			b.WriteByte(ch)
			continue
		}
		if ch == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop trailing comma
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// coercePriority clamps to 1..3 and accepts numbers, numeric strings,
// or low/medium/high words. Unknown input lands in the middle.
func coercePriority(raw json.RawMessage) int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 2
	}
	s = strings.Trim(s, `"`)
	if n, err := strconv.Atoi(s); err == nil {
		return clampPriority(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return clampPriority(int(f))
	}
	switch strings.ToLower(s) {
	case "high", "urgent", "critical":
		return 1
	case "low":
		return 3
	default:
		return 2
	}
}

func clampPriority(n int) int {
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}
