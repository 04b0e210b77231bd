package recommend

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var (
	errNotObject      = errors.New("reply is not a JSON object")
	errBadRecommended = errors.New("recommendations is not an array")
)

// ExtractJSONObject returns the greedy span from the first '{' to the last '}' in text.
// ok is false when no such span exists; callers then parse the whole reply.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseReply strictly parses candidate as a JSON object and returns its recommendations array.
// A missing or null array yields an empty slice.
func ParseReply(candidate string) ([]Item, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if top == nil {
		return nil, errNotObject
	}
	raw, ok := top["recommendations"]
	if !ok {
		return []Item{}, nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []Item{}, nil
	}
	if raw[0] != '[' {
		return nil, errBadRecommended
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// parseModelReply applies both extraction stages to the raw model reply.
func parseModelReply(reply string) ([]Item, error) {
	candidate, ok := ExtractJSONObject(reply)
	if !ok {
		candidate = reply
	}
	return ParseReply(candidate)
}
