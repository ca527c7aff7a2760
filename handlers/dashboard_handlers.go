// api/handlers/dashboard_handlers.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/plot/vg"

	"olistdash/api/middleware"
	"olistdash/api/models"
	"olistdash/api/render"
	"olistdash/api/store"
	"olistdash/api/utils"
	"olistdash/api/views"
)

const (
	defaultImageWidth  = 1152
	defaultImageHeight = 576
	maxImageSide       = 4096

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DashboardHandlers struct {
	Store *store.DashboardStore
}

func NewDashboardHandlers(s *store.DashboardStore) *DashboardHandlers {
	return &DashboardHandlers{
		Store: s,
	}
}

// Register mounts the dashboard endpoints on rg.
func (h *DashboardHandlers) Register(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/pages", h.ListPages)
	rg.GET("/range", h.GetDateBounds)
	rg.GET("/geo/states", h.GetStateGeometry)

	pages := rg.Group("/pages/:page")
	{
		pages.GET("", h.RenderPage)
		pages.GET("/charts/:chart", h.RenderChartImage)
		pages.GET("/export", h.ExportPage)
	}
}

func (h *DashboardHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DashboardHandlers) ListPages(c *gin.Context) {
	pages := make([]models.PageInfo, 0, len(models.Pages()))
	for _, p := range models.Pages() {
		pages = append(pages, models.PageInfo{Slug: p.Slug(), Title: p.Title()})
	}
	c.JSON(http.StatusOK, pages)
}

func (h *DashboardHandlers) GetDateBounds(c *gin.Context) {
	minDate, maxDate := h.Store.DateBounds()
	c.JSON(http.StatusOK, models.DateBounds{
		MinDate: minDate.Format(utils.DateLayout),
		MaxDate: maxDate.Format(utils.DateLayout),
	})
}

func (h *DashboardHandlers) GetStateGeometry(c *gin.Context) {
	body, err := h.Store.Dataset().Boundaries.MarshalJSON()
	if err != nil {
		log.Printf("[%s] Error encoding state boundaries: %v", middleware.RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode state boundaries"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

func (h *DashboardHandlers) RenderPage(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	w, startDate, endDate, warnings, ok := h.window(c)
	if !ok {
		return
	}

	charts := make([]models.Chart, 0, 4)
	for chart := range views.Render(page, w) {
		if chart.Geo != nil && len(chart.Geo.Unmatched) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no map shape for states %v", chart.ID, chart.Geo.Unmatched))
		}
		charts = append(charts, chart)
	}

	log.Printf("[%s] Rendered page %s for %s..%s: %d charts", middleware.RequestID(c), page,
		startDate.Format(utils.DateLayout), endDate.Format(utils.DateLayout), len(charts))
	c.JSON(http.StatusOK, models.PageResponse{
		Page:      page.Slug(),
		Title:     page.Title(),
		StartDate: startDate.Format(utils.DateLayout),
		EndDate:   endDate.Format(utils.DateLayout),
		Charts:    charts,
		Warnings:  warnings,
	})
}

func (h *DashboardHandlers) RenderChartImage(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	width, ok := imageSide(c, "width", defaultImageWidth)
	if !ok {
		return
	}
	height, ok := imageSide(c, "height", defaultImageHeight)
	if !ok {
		return
	}
	w, _, _, _, ok := h.window(c)
	if !ok {
		return
	}

	chart, found := views.Find(page, w, c.Param("chart"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Page %s has no chart %q", page, c.Param("chart"))})
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, chart, pixels(width), pixels(height)); err != nil {
		if errors.Is(err, render.ErrUnsupportedChart) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Map charts are drawn by the client from /api/geo/states"})
			return
		}
		log.Printf("[%s] Error rendering chart %s/%s: %v", middleware.RequestID(c), page, chart.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardHandlers) ExportPage(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	w, startDate, endDate, _, ok := h.window(c)
	if !ok {
		return
	}

	var charts []models.Chart
	for chart := range views.Render(page, w) {
		charts = append(charts, chart)
	}

	rangeLabel := startDate.Format(utils.DateLayout) + " to " + endDate.Format(utils.DateLayout)
	f, err := render.Workbook(page, rangeLabel, charts)
	if err != nil {
		log.Printf("[%s] Error building workbook for %s: %v", middleware.RequestID(c), page, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export page data"})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("[%s] Error writing workbook for %s: %v", middleware.RequestID(c), page, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export page data"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, page.Slug()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func pageParam(c *gin.Context) (models.Page, bool) {
	page, err := models.ParsePage(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown page", "details": err.Error()})
		return 0, false
	}
	return page, true
}

// window parses the start/end query parameters (calendar dates, defaulting to the data bounds)
// and filters the dataset. An empty result is reported as a warning, not an error.
func (h *DashboardHandlers) window(c *gin.Context) (w *store.Window, startDate, endDate time.Time, warnings []string, ok bool) {
	startDate, endDate = h.Store.DateBounds()

	if startParam := c.Query("start"); startParam != "" {
		parsed, err := utils.ParseDateParam(startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' date. Use YYYY-MM-DD or RFC3339 (e.g., 2017-01-31)"})
			return nil, startDate, endDate, nil, false
		}
		startDate = parsed
	}
	if endParam := c.Query("end"); endParam != "" {
		parsed, err := utils.ParseDateParam(endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' date. Use YYYY-MM-DD or RFC3339 (e.g., 2018-08-31)"})
			return nil, startDate, endDate, nil, false
		}
		endDate = parsed
	}

	w, err := h.Store.Window(store.Days(startDate, endDate))
	var empty *store.EmptyRangeError
	if errors.As(err, &empty) {
		log.Printf("[%s] %v", middleware.RequestID(c), empty)
		warnings = append(warnings, "No data in the selected date range: "+empty.Error())
	}
	return w, startDate, endDate, warnings, true
}

func imageSide(c *gin.Context, name string, def int) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxImageSide {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid '%s' parameter. Must be a positive integer up to %d.", name, maxImageSide)})
		return 0, false
	}
	return n, true
}

// pixels converts a pixel size at the PNG's 96 dpi into plot points.
func pixels(px int) vg.Length {
	return vg.Length(float64(px) * float64(vg.Inch) / 96)
}
