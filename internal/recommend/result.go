package recommend

import "github.com/goccy/go-json"

// Kind tags which variant of Result is populated.
type Kind string

const (
	KindSuccess    Kind = "success"
	KindAPIError   Kind = "api_error"
	KindParseError Kind = "parse_error"
)

const (
	parseFailedMessage   = "Failed to parse recommendations"
	missingCredentialMsg = "API error: missing API credential"
)

// Result is the outcome of one pipeline run. Exactly one variant is populated:
// Recommendations for KindSuccess, Message for KindAPIError, Message and RawText for KindParseError.
type Result struct {
	Kind            Kind
	Recommendations []Item
	Message         string
	RawText         string
}

// Success wraps recommendations. A nil slice is normalized to empty.
func Success(items []Item) Result {
	if items == nil {
		items = []Item{}
	}
	return Result{Kind: KindSuccess, Recommendations: items}
}

// APIError reports a failed or non-2xx call to the completion endpoint.
func APIError(message string) Result {
	return Result{Kind: KindAPIError, Message: message}
}

// ParseError reports a reply that did not contain well-formed JSON.
func ParseError(message, rawText string) Result {
	return Result{Kind: KindParseError, Message: message, RawText: rawText}
}

// OK reports whether r is a success.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

type resultJSON struct {
	Kind            Kind   `json:"kind"`
	Recommendations []Item `json:"recommendations,omitempty"`
	Error           string `json:"error,omitempty"`
}

// MarshalJSON renders the wire shape consumed by the page: recommendations on success,
// error (plus rawText for parse failures) otherwise.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Kind: r.Kind}
	switch r.Kind {
	case KindSuccess:
		if len(r.Recommendations) == 0 {
			return json.Marshal(struct {
				Kind            Kind   `json:"kind"`
				Recommendations []Item `json:"recommendations"`
			}{Kind: r.Kind, Recommendations: []Item{}})
		}
		out.Recommendations = r.Recommendations
	case KindParseError:
		// rawText is always present so the page can show an empty reply.
		return json.Marshal(struct {
			Kind    Kind   `json:"kind"`
			Error   string `json:"error"`
			RawText string `json:"rawText"`
		}{Kind: r.Kind, Error: r.Message, RawText: r.RawText})
	default:
		out.Error = r.Message
	}
	return json.Marshal(out)
}
