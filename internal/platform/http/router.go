package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

// retryAfterSeconds is advertised while the dataset is still loading.
const retryAfterSeconds = 5

// Options tunes the router's middleware.
type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Router wires HTTP handlers.
type Router struct {
	svc    *dashboard.Service
	logger *zerolog.Logger
}

func NewRouter(svc *dashboard.Service, opts Options, logger *zerolog.Logger) (*gin.Engine, error) {
	r := &Router{svc: svc, logger: logger}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		accessLogMiddleware(logger),
		corsMiddleware(opts.AllowedOrigins),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limited := router.Group("/", rateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	{
		limited.GET("/", r.homePage)
		limited.GET("/dashboard", r.dashboardPage)
		limited.POST("/apply", r.applyForm)
	}

	api := router.Group("/api", rateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	{
		api.GET("/dataset/status", r.datasetStatus)
		api.GET("/overview", r.getOverview)
		api.GET("/filters", r.getFilters)
		api.POST("/filters/apply", r.applyFilters)
		api.GET("/dashboard", r.getDashboard)
		api.GET("/charts/:file", r.getChart)
		api.GET("/export/:file", r.exportRecords)
	}

	return router, nil
}

func parseTemplates() (*template.Template, error) {
	printer := message.NewPrinter(language.English)
	funcs := template.FuncMap{
		"number": func(n int) string { return printer.Sprintf("%d", n) },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// datasetError maps a dataset load state error to a status code.
func datasetError(err error) int {
	if errors.Is(err, dashboard.ErrLoading) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (r *Router) abortDataset(c *gin.Context, err error) {
	status := datasetError(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
