// Package web serves the server-rendered preference form and results page.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/classify"
	"recommender-backend/internal/recommend"
	"recommender-backend/internal/recommendations"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("web").Funcs(template.FuncMap{
		"primary": func(it recommend.Item) string { return string(classify.Primary(it)) },
		"books": func(items []recommend.Item) []recommend.Item {
			b, _ := classify.Split(items)
			return b
		},
		"movies": func(items []recommend.Item) []recommend.Item {
			_, m := classify.Split(items)
			return m
		},
	}).ParseFS(templateFiles, "templates/*.html"))
}

// Handler renders the form and runs the pipeline on submit.
type Handler struct {
	Fetcher recommendations.Fetcher
	Title   string
	Admit   recommendations.Admit
}

// NewHandler constructs a Handler. admit may be nil.
func NewHandler(f recommendations.Fetcher, title string, admit recommendations.Admit) *Handler {
	recommendations.RegisterValidators()
	return &Handler{Fetcher: f, Title: title, Admit: admit}
}

// RegisterRoutes attaches the page routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.form)
	r.POST("/", h.submit)
}

type page struct {
	Title        string
	ContentTypes []recommendations.Option
	Genres       []recommendations.Option
	Moods        []recommendations.Option
	Form         recommendations.PreferencesRequest
	Errors       map[string]string
	Result       *recommend.Result
}

// Selected reports whether a genre checkbox was ticked.
func (p page) Selected(id string) bool {
	for _, g := range p.Form.Genres {
		if g == id {
			return true
		}
	}
	return false
}

func (h *Handler) newPage(form recommendations.PreferencesRequest) page {
	return page{
		Title:        h.Title,
		ContentTypes: recommendations.ContentTypeOptions,
		Genres:       recommendations.GenreOptions,
		Moods:        recommendations.MoodOptions,
		Form:         form,
		Errors:       map[string]string{},
	}
}

func (h *Handler) form(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.newPage(recommendations.PreferencesRequest{ContentType: string(recommend.ContentBoth)}))
}

func (h *Handler) submit(c *gin.Context) {
	var req recommendations.PreferencesRequest
	if err := c.ShouldBind(&req); err != nil {
		p := h.newPage(req)
		if fields := recommendations.FieldErrors(err); fields != nil {
			p.Errors = fields
		} else {
			p.Errors["contentType"] = "could not read the form"
		}
		c.HTML(http.StatusBadRequest, "index.html", p)
		return
	}
	if h.Admit != nil && !h.Admit(c) {
		return
	}

	res := h.Fetcher.Fetch(c.Request.Context(), req.Preferences())
	c.Set("resultKind", string(res.Kind))
	p := h.newPage(req)
	p.Result = &res
	c.HTML(http.StatusOK, "index.html", p)
}
