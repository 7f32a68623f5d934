package terms

import (
	"encoding/json"
	"strconv"
	"strings"

	"hiring-platform/internal/matching"
)

// ParseTermWeights reads a model answer. The whole answer is tried as a
// JSON object first, then the first balanced {...} region inside it.
// ok is false when neither yields at least one usable term.
func ParseTermWeights(raw string) (matching.TermWeights, bool) {
	if weights, ok := decodeWeights(strings.TrimSpace(raw)); ok {
		return weights, true
	}
	if obj, found := firstJSONObject(raw); found {
		return decodeWeights(obj)
	}
	return nil, false
}

func decodeWeights(s string) (matching.TermWeights, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, false
	}

	weights := make(matching.TermWeights, len(data))
	for k, v := range data {
		term := strings.ToLower(strings.TrimSpace(k))
		if term == "" {
			continue
		}
		score, ok := coerceScore(v)
		if !ok {
			continue
		}
		if prev, exists := weights[term]; !exists || score > prev {
			weights[term] = score
		}
	}
	return weights, len(weights) > 0
}

func coerceScore(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	switch {
	case f != f: // NaN
		return 0, false
	case f < 0:
		return 0, true
	case f > 1:
		return 1, true
	default:
		return f, true
	}
}

// firstJSONObject returns the first substring that opens with '{' and
// closes with its matching '}'. Braces inside JSON strings are ignored.
func firstJSONObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end, ok := matchBrace(s, start); ok {
			return s[start : end+1], true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
