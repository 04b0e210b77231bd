package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/shared/server/middleware"
	"recommender-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

type usageResponse struct {
	Usage
	Remaining int  `json:"remaining"`
	Enabled   bool `json:"enabled"`
}

func (h *Handler) getUsage(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), middleware.ClientIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "request_canceled", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to load usage", nil)
		}
		return
	}
	respond.OK(c, usageResponse{Usage: u, Remaining: u.Remaining(), Enabled: h.Svc.Enabled()})
}

// Admitter returns a check that records one request for the caller. Handlers call it only after
// the request is valid; when the daily limit is reached it writes the 429 response and reports false.
func Admitter(svc *Service) func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		if !svc.Enabled() {
			return true
		}
		u, err := svc.Consume(c.Request.Context(), middleware.ClientIDFromContext(c))
		if err != nil {
			if errors.Is(err, ErrLimitReached) {
				respond.Error(c, http.StatusTooManyRequests, "limit_reached", "Daily recommendation limit reached", gin.H{
					"limit":    u.Limit,
					"resetsAt": u.ResetsAt,
				})
				return false
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to record usage", nil)
			return false
		}
		c.Set("usageUsed", u.Used)
		return true
	}
}
