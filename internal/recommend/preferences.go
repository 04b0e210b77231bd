package recommend

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"recommender-backend/internal/shared/telemetry"
)

// ContentType selects what kind of titles to recommend.
type ContentType string

const (
	ContentBooks  ContentType = "books"
	ContentMovies ContentType = "movies"
	ContentBoth   ContentType = "both"
)

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	switch c {
	case ContentBooks, ContentMovies, ContentBoth:
		return true
	default:
		return false
	}
}

// Preferences is the caller-supplied input for one recommendation request.
type Preferences struct {
	ContentType    ContentType `json:"contentType"`
	Genres         []string    `json:"genres"`
	Mood           string      `json:"mood"`
	Favorites      string      `json:"favorites"`
	AdditionalInfo string      `json:"additionalInfo"`
}

// Item is one recommendation as returned by the model.
type Item struct {
	Title       string `json:"title"`
	Creator     string `json:"creator"`
	Year        string `json:"year"`
	Genre       string `json:"genre"`
	Explanation string `json:"explanation"`
}

// UnmarshalJSON decodes an item leniently: missing or null fields become empty strings,
// numbers and booleans keep their literal text, and non-object elements decode to a zero Item.
func (it *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		telemetry.Debug("recommend.item_discarded", map[string]any{
			"value": truncateText(strings.TrimSpace(string(data)), 256),
		})
		*it = Item{}
		return nil
	}
	*it = Item{
		Title:       scalarText("title", fields["title"]),
		Creator:     scalarText("creator", fields["creator"]),
		Year:        scalarText("year", fields["year"]),
		Genre:       scalarText("genre", fields["genre"]),
		Explanation: scalarText("explanation", fields["explanation"]),
	}
	return nil
}

// scalarText renders a scalar field as text. Objects and arrays are dropped and logged at debug.
func scalarText(name string, raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return discarded(name, trimmed)
	}
	if trimmed == "true" || trimmed == "false" {
		return trimmed
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return trimmed
	}
	return discarded(name, trimmed)
}

func discarded(name, value string) string {
	telemetry.Debug("recommend.item_field_discarded", map[string]any{
		"field": name,
		"value": truncateText(value, 256),
	})
	return ""
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
