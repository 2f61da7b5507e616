package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobscout/jobscout/backend/go-services/internal/jobsearch"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

var searchLog = logger.For("scraper")

// SearchHandler forwards job searches to the scraper service.
type SearchHandler struct {
	searcher jobsearch.Searcher
}

func NewSearchHandler(s jobsearch.Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

func (h *SearchHandler) Register(rg *gin.RouterGroup) {
	api := rg.Group("/api")
	api.POST("/search", h.Search)
	api.POST("/scraper", h.Search)
	api.GET("/notifications", h.Notifications)
}

func upstreamFailure(c *gin.Context, msg string, err error) {
	var ue *jobsearch.UpstreamError
	if errors.As(err, &ue) {
		searchLog.Warnf("%v", err)
	} else {
		searchLog.Errorf("unreachable: %v", err)
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg, "details": err.Error()})
}

// Search runs one query. The signed-in user is used when no user id is sent.
func (h *SearchHandler) Search(c *gin.Context) {
	var req jobsearch.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request", "details": err.Error()})
		return
	}
	q, err := req.Normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.UserID == "" {
		q.UserID = middleware.Subject(c)
	}
	res, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		upstreamFailure(c, "Failed to fetch jobs", err)
		return
	}
	if res.Results == nil {
		res.Results = []jobsearch.Job{}
	}
	c.JSON(http.StatusOK, res)
}

func (h *SearchHandler) Notifications(c *gin.Context) {
	n, err := h.searcher.Notifications(c.Request.Context())
	if err != nil {
		upstreamFailure(c, "Failed to fetch notifications", err)
		return
	}
	if n.Jobs == nil {
		n.Jobs = []jobsearch.Job{}
	}
	c.JSON(http.StatusOK, n)
}
