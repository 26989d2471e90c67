package http

import (
	"sort"
	"strings"
)

// Values maps parameter or cookie names to their literal values.
// Values are never URL-decoded.
type Values map[string]string

// Get returns the value for key, or "" when absent
func (v Values) Get(key string) string {
	return v[key]
}

// ParseQueryString parses "key=value&key=value" into Values.
// Segments without '=' are skipped.
func ParseQueryString(s string) Values {
	return splitPairs(s, "&", false)
}

// ParseCookies parses a Cookie header value ("a=1; b=2")
func ParseCookies(s string) Values {
	return splitPairs(s, ";", true)
}

// EncodeQueryString joins v back into "key=value&key=value" with keys sorted
func EncodeQueryString(v Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v[k])
	}
	return sb.String()
}

func splitPairs(s, sep string, trim bool) Values {
	values := make(Values)
	if s == "" {
		return values
	}

	for _, pair := range strings.Split(s, sep) {
		if trim {
			pair = strings.TrimSpace(pair)
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if trim {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
		}
		values[key] = value
	}
	return values
}
