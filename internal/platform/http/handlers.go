package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/charts"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/export"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

type datasetStatusResp struct {
	Loading     bool       `json:"loading"`
	Source      string     `json:"source,omitempty"`
	Records     int        `json:"records"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	LoadedAt    *time.Time `json:"loadedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (r *Router) datasetStatus(c *gin.Context) {
	st := r.svc.State()
	resp := datasetStatusResp{Loading: st.Loading}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	if ds := st.Dataset; ds != nil {
		resp.Source = ds.Source
		resp.Records = len(ds.Records)
		resp.Fingerprint = ds.Fingerprint
		if !ds.LoadedAt.IsZero() {
			loadedAt := ds.LoadedAt
			resp.LoadedAt = &loadedAt
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) getOverview(c *gin.Context) {
	ov, err := r.svc.Overview()
	if err != nil {
		r.abortDataset(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (r *Router) getFilters(c *gin.Context) {
	cats, err := r.svc.Filters()
	if err != nil {
		r.abortDataset(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}

type applyFiltersReq struct {
	Filters []model.ActiveFilter `json:"filters"`
}

func (r *Router) applyFilters(c *gin.Context) {
	var req applyFiltersReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var sel dashboard.Selection
	for _, f := range req.Filters {
		if err := sel.Select(f.Attribute, f.Value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	query, err := sel.Apply()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"location": "/dashboard?" + query,
	})
}

// criteria decodes the request's query string, answering 400 on malformed input.
func (r *Router) criteria(c *gin.Context) (dashboard.Criteria, bool) {
	criteria, err := dashboard.DecodeQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return criteria, true
}

func (r *Router) getDashboard(c *gin.Context) {
	criteria, ok := r.criteria(c)
	if !ok {
		return
	}
	d, err := r.svc.Dashboard(criteria)
	if err != nil {
		r.abortDataset(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (r *Router) getChart(c *gin.Context) {
	kind, format, err := charts.ParseFile(c.Param("file"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	criteria, ok := r.criteria(c)
	if !ok {
		return
	}
	d, err := r.svc.Dashboard(criteria)
	if err != nil {
		r.abortDataset(c, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, d, kind, format); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		r.logger.Error().Err(err).Str("chart", string(kind)).Msg("render chart failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render chart failed"})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (r *Router) exportRecords(c *gin.Context) {
	format, err := export.ParseFile(c.Param("file"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	criteria, ok := r.criteria(c)
	if !ok {
		return
	}
	header, records, err := r.svc.Records(criteria)
	if err != nil {
		r.abortDataset(c, err)
		return
	}

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ev-records.%s", format))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, header, records); err != nil {
		r.logger.Error().Err(err).Str("format", string(format)).Msg("export records failed")
	}
}
