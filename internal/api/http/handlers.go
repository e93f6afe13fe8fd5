package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/tami/internal/domain/favorites"
	"github.com/GriffinCanCode/tami/internal/infrastructure/monitoring"
)

// Version is reported by the root endpoint.
const Version = "0.3.0"

// Handlers contains the status handlers.
type Handlers struct {
	favorites *favorites.Store
	metrics   *monitoring.Metrics
	startedAt time.Time
	now       func() time.Time
}

// NewHandlers creates a handler set. metrics may be nil.
func NewHandlers(favs *favorites.Store, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		favorites: favs,
		metrics:   metrics,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Register mounts the handlers on router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/favorites", h.ListFavorites)
	router.GET("/favorites/:index", h.GetFavorite)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root handles the service identity check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "tami",
		"version": Version,
	})
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	uptime := h.now().Sub(h.startedAt)
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"started":        humanize.Time(h.startedAt),
		"uptime_seconds": int64(uptime.Seconds()),
		"favorites":      h.favorites.Len(),
	})
}

// ListFavorites returns every favorite in order
func (h *Handlers) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, h.favorites.List())
}

// GetFavorite returns one favorite by position
func (h *Handlers) GetFavorite(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	f, ok := h.favorites.At(index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}
