package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/charts"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

type statusPage struct {
	Title   string
	Heading string
	Kind    string
	Message string
}

type homePage struct {
	Title      string
	Overview   model.Overview
	Categories []model.FilterCategory
	Error      string
}

type chartLink struct {
	Title string
	URL   string
}

type dashboardPage struct {
	Title      string
	Dashboard  model.Dashboard
	Charts     []chartLink
	ExportCSV  string
	ExportXLSX string
}

// renderDatasetState shows the loading or failure state in place of a page.
func (r *Router) renderDatasetState(c *gin.Context, err error) {
	status := datasetError(err)
	page := statusPage{Title: "Loading", Heading: "Loading data…", Kind: "loading", Message: "The vehicle dataset is still loading. This page will be ready shortly."}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	} else {
		page = statusPage{Title: "Error", Heading: "Unable to load data", Kind: "error", Message: err.Error()}
	}
	c.HTML(status, "status.html", page)
}

func (r *Router) homePage(c *gin.Context) {
	r.renderHome(c, http.StatusOK, "")
}

func (r *Router) renderHome(c *gin.Context, status int, formErr string) {
	ov, err := r.svc.Overview()
	if err != nil {
		r.renderDatasetState(c, err)
		return
	}
	cats, err := r.svc.Filters()
	if err != nil {
		r.renderDatasetState(c, err)
		return
	}
	c.HTML(status, "home.html", homePage{
		Title:      "Overview",
		Overview:   ov,
		Categories: cats,
		Error:      formErr,
	})
}

// applyForm turns the filter form into a dashboard redirect.
func (r *Router) applyForm(c *gin.Context) {
	var sel dashboard.Selection
	for _, attr := range dashboard.Attributes {
		if v := c.PostForm(dashboard.EncodeKey(attr)); v != "" {
			if err := sel.Select(attr, v); err != nil {
				r.logger.Warn().Err(err).Str("attribute", attr).Msg("skip form filter")
			}
		}
	}
	query, err := sel.Apply()
	if err != nil {
		r.renderHome(c, http.StatusBadRequest, "Select at least one filter before applying.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?"+query)
}

func (r *Router) dashboardPage(c *gin.Context) {
	criteria, err := dashboard.DecodeQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.HTML(http.StatusBadRequest, "status.html", statusPage{
			Title: "Bad request", Heading: "Invalid filters", Kind: "error", Message: err.Error(),
		})
		return
	}
	d, err := r.svc.Dashboard(criteria)
	if err != nil {
		r.renderDatasetState(c, err)
		return
	}

	suffix := ""
	if q := criteria.Encode(); q != "" {
		suffix = "?" + q
	}
	page := dashboardPage{
		Title:      "Dashboard",
		Dashboard:  d,
		ExportCSV:  "/api/export/records.csv" + suffix,
		ExportXLSX: "/api/export/records.xlsx" + suffix,
	}
	for _, kind := range charts.Kinds {
		dist, _ := charts.View(d, kind)
		if dist.Total() == 0 {
			continue
		}
		page.Charts = append(page.Charts, chartLink{
			Title: kind.Title(),
			URL:   "/api/charts/" + string(kind) + ".svg" + suffix,
		})
	}
	c.HTML(http.StatusOK, "dashboard.html", page)
}
