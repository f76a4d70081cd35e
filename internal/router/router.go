package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediflow/hms-gateway/internal/handler"
	adminHandler "github.com/mediflow/hms-gateway/internal/handler/admin"
	authHandler "github.com/mediflow/hms-gateway/internal/handler/auth"
	bookingHandler "github.com/mediflow/hms-gateway/internal/handler/booking"
	doctorHandler "github.com/mediflow/hms-gateway/internal/handler/doctor"
	staffHandler "github.com/mediflow/hms-gateway/internal/handler/staff"
	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/model"
)

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	authH    *authHandler.Handler
	bookingH *bookingHandler.Handler
	staffH   *staffHandler.Handler
	doctorH  *doctorHandler.Handler
	adminH   *adminHandler.Handler
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	Timeout       time.Duration
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	bookingH *bookingHandler.Handler,
	staffH *staffHandler.Handler,
	doctorH *doctorHandler.Handler,
	adminH *adminHandler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	r := &Router{
		engine:   engine,
		auth:     auth,
		authH:    authH,
		bookingH: bookingH,
		staffH:   staffH,
		doctorH:  doctorH,
		adminH:   adminH,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

// Setup wires every route group. Protected groups re-run the access guard on
// each request; a role outside a group's required set is redirected to its
// own landing view, never to a generic denied page.
func (r *Router) Setup() {
	r.engine.GET("/health", handler.Health)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api")

	// Public surface: login and the booking form.
	r.bookingH.RegisterRoutes(api)

	authed := api.Group("", r.auth.Authenticate())
	r.authH.RegisterRoutes(api, authed)

	staff := authed.Group("/staff", r.auth.RequireRoles(model.RoleStaff))
	r.staffH.RegisterRoutes(staff)

	doctor := authed.Group("/doctor", r.auth.RequireRoles(model.RoleDoctor))
	r.doctorH.RegisterRoutes(doctor)

	admin := authed.Group("/admin", r.auth.RequireRoles(model.RoleAdmin))
	r.adminH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "hms_gateway"
	}
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	prometheus.MustRegister(r.metrics.requestDuration, r.metrics.requestTotal, r.metrics.errorTotal)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
