package recommendations

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/recommend"
	"recommender-backend/internal/shared/server/respond"
)

// Fetcher runs the recommendation pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, prefs recommend.Preferences) recommend.Result
}

// Admit runs after a request is validated and before the pipeline. When it returns false it has
// already written the response.
type Admit func(c *gin.Context) bool

// Handler wires HTTP handlers to the pipeline.
type Handler struct {
	Fetcher Fetcher
	Admit   Admit
}

// NewHandler constructs a Handler. admit may be nil.
func NewHandler(f Fetcher, admit Admit) *Handler {
	RegisterValidators()
	return &Handler{Fetcher: f, Admit: admit}
}

// RegisterRoutes attaches recommendation routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/options", h.options)
	rg.POST("/recommendations", h.create)
}

func (h *Handler) options(c *gin.Context) {
	respond.OK(c, gin.H{
		"contentTypes": ContentTypeOptions,
		"genres":       GenreOptions,
		"moods":        MoodOptions,
	})
}

// create always answers 200 once the input is valid; pipeline failures are part of the result body.
func (h *Handler) create(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", FieldErrors(err))
		return
	}
	if h.Admit != nil && !h.Admit(c) {
		return
	}

	res := h.Fetcher.Fetch(c.Request.Context(), req.Preferences())
	c.Set("resultKind", string(res.Kind))
	respond.OK(c, res)
}
