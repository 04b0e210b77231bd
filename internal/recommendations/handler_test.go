package recommendations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/recommend"
	"recommender-backend/internal/usage"
)

type stubFetcher struct {
	result recommend.Result
	got    []recommend.Preferences
}

func (s *stubFetcher) Fetch(ctx context.Context, prefs recommend.Preferences) recommend.Result {
	s.got = append(s.got, prefs)
	return s.result
}

func newTestRouter(f Fetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f, nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateReturnsSuccessResult(t *testing.T) {
	f := &stubFetcher{result: recommend.Success([]recommend.Item{{Title: "Dune", Creator: "Frank Herbert"}})}
	r := newTestRouter(f)

	resp := postJSON(r, `{"contentType":"both","genres":["sci-fi"," sci-fi","drama"],"mood":"thoughtful","favorites":"Arrival","additionalInfo":"  keep spaces "}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Kind            string           `json:"kind"`
		Recommendations []recommend.Item `json:"recommendations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Kind != "success" || len(payload.Recommendations) != 1 || payload.Recommendations[0].Title != "Dune" {
		t.Fatalf("unexpected payload %#v", payload)
	}

	want := recommend.Preferences{
		ContentType:    recommend.ContentBoth,
		Genres:         []string{"sci-fi", "drama"},
		Mood:           "thoughtful",
		Favorites:      "Arrival",
		AdditionalInfo: "  keep spaces ",
	}
	if len(f.got) != 1 || !reflect.DeepEqual(f.got[0], want) {
		t.Fatalf("unexpected preferences %#v", f.got)
	}
}

func TestCreateReturnsPipelineErrorsAsResults(t *testing.T) {
	tests := []struct {
		name   string
		result recommend.Result
		want   map[string]any
	}{
		{
			name:   "api error",
			result: recommend.APIError("API error: 500 Internal Server Error"),
			want:   map[string]any{"kind": "api_error", "error": "API error: 500 Internal Server Error"},
		},
		{
			name:   "parse error",
			result: recommend.ParseError("Failed to parse recommendations", "not json at all"),
			want:   map[string]any{"kind": "parse_error", "error": "Failed to parse recommendations", "rawText": "not json at all"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubFetcher{result: tt.result})
			resp := postJSON(r, `{"contentType":"movies","genres":["horror"]}`)
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
			var payload map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(payload, tt.want) {
				t.Fatalf("got %v, want %v", payload, tt.want)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "bad content type", body: `{"contentType":"music","genres":["drama"]}`, wantField: "contentType"},
		{name: "missing content type", body: `{"genres":["drama"]}`, wantField: "contentType"},
		{name: "no genres", body: `{"contentType":"books","genres":[]}`, wantField: "genres"},
		{name: "missing genres", body: `{"contentType":"books"}`, wantField: "genres"},
		{name: "blank genre", body: `{"contentType":"books","genres":["  "]}`, wantField: "genres"},
		{name: "blank among genres", body: `{"contentType":"books","genres":["drama","\t"]}`, wantField: "genres"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{}
			r := newTestRouter(f)
			resp := postJSON(r, tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			var payload struct {
				Error struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error.Code != "validation_error" {
				t.Fatalf("unexpected code %q", payload.Error.Code)
			}
			if _, ok := payload.Error.Details[tt.wantField]; !ok {
				t.Fatalf("expected details for %s, got %v", tt.wantField, payload.Error.Details)
			}
			if len(f.got) != 0 {
				t.Fatalf("pipeline must not run on invalid input")
			}
		})
	}
}

func TestCreateAdmitsOnlyValidRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := &stubFetcher{result: recommend.Success(nil)}
	admitted := 0
	r := gin.New()
	NewHandler(f, func(c *gin.Context) bool {
		admitted++
		c.AbortWithStatus(http.StatusTooManyRequests)
		return false
	}).RegisterRoutes(r.Group("/api/v1"))

	if resp := postJSON(r, `{"contentType":"books","genres":[]}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if admitted != 0 {
		t.Fatalf("invalid request must not be admitted")
	}

	resp := postJSON(r, `{"contentType":"books","genres":["drama"]}`)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected admission to reject, got %d", resp.Code)
	}
	if admitted != 1 || len(f.got) != 0 {
		t.Fatalf("pipeline must not run when admission rejects (admitted=%d, fetched=%d)", admitted, len(f.got))
	}
}

func TestInvalidRequestsDoNotConsumeQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := &stubFetcher{result: recommend.Success(nil)}
	svc := usage.NewService(2)
	r := gin.New()
	NewHandler(f, usage.Admitter(svc)).RegisterRoutes(r.Group("/api/v1"))

	for i := 0; i < 2; i++ {
		if resp := postJSON(r, `{"contentType":"books","genres":[]}`); resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	}
	if resp := postJSON(r, `{"contentType":"books","genres":["  "]}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank genre, got %d", resp.Code)
	}

	u, err := svc.Get(context.Background(), "192.0.2.1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("expected no quota used by invalid requests, got %d", u.Used)
	}

	for i := 0; i < 2; i++ {
		if resp := postJSON(r, `{"contentType":"books","genres":["drama"]}`); resp.Code != http.StatusOK {
			t.Fatalf("valid request %d: expected 200, got %d", i, resp.Code)
		}
	}
	if resp := postJSON(r, `{"contentType":"books","genres":["drama"]}`); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", resp.Code)
	}
	if len(f.got) != 2 {
		t.Fatalf("expected 2 pipeline runs, got %d", len(f.got))
	}
}

func TestOptions(t *testing.T) {
	r := newTestRouter(&stubFetcher{})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload map[string][]Option
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload["genres"]) != 10 || len(payload["moods"]) != 7 || len(payload["contentTypes"]) != 3 {
		t.Fatalf("unexpected options %v", payload)
	}
}
