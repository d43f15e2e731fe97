package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/rebound/internal/auth"
	"github.com/alexanderramin/rebound/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Recovery service.RecoveryService
	Tasks    service.TaskService
	Stats    service.StatsService
	Tokens   *auth.Tokens
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	Location *time.Location
	// RateLimitPerMinute bounds requests per user; zero disables the limit.
	RateLimitPerMinute int
	CORSOrigins        []string
	Now                func() time.Time
}

type api struct {
	Deps
}

// NewRouter builds the gin engine with all routes under /api/v1.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	a := &api{Deps: deps}

	r := gin.New()
	r.Use(recoverPanics(deps.Logger), accessLog(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1", requireUser(deps.Tokens), rateLimit(deps.RateLimitPerMinute))

	recovery := v1.Group("/recovery/plans")
	recovery.POST("", a.buildPlan)
	recovery.POST("/manual", a.buildManualPlan)
	recovery.POST("/apply", a.applyPlan)
	recovery.GET("/:id", a.getPlan)

	stats := v1.Group("/stats")
	stats.GET("/daily", a.dailyStats)
	stats.GET("/weekly", a.weeklyStats)
	stats.GET("/monthly", a.monthlyStats)
	stats.GET("/tags", a.tagStats)

	tasks := v1.Group("/tasks")
	tasks.POST("", a.createTask)
	tasks.GET("", a.listTasks)
	tasks.GET("/:id", a.getTask)
	tasks.POST("/:id/complete", a.completeTask)

	return r
}

// NewHandler wraps the router with CORS handling for origins.
func NewHandler(deps Deps) http.Handler {
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{errorCodeHeader},
	})
	return c.Handler(NewRouter(deps))
}
