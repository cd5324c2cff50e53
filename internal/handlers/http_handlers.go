package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"santa/internal/matching"
	"santa/internal/models"
	"santa/internal/reveal"
	"santa/internal/roster"
	"santa/internal/services"
)

const (
	tenantHeader = "X-Tenant-ID"
	tenantCookie = "santa_tenant"
	tenantKey    = "tenantID"

	tenantCookieMaxAge = 30 * 24 * 60 * 60
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the santa service.
type HTTPHandler struct {
	service  *services.SantaService
	baseURL  string
	gatherer prometheus.Gatherer
}

// NewHTTPHandler creates a new HTTPHandler. baseURL prefixes reveal links.
func NewHTTPHandler(service *services.SantaService, baseURL string, gatherer prometheus.Gatherer) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		baseURL:  baseURL,
		gatherer: gatherer,
	}
}

type participantsRequest struct {
	Rows []models.Row `json:"rows" binding:"required"`
}

type assignmentView struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
	Token    string `json:"token"`
	Link     string `json:"link"`
}

// RegisterPublicRoutes registers routes that need no tenant.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRoutes) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	router.GET("/reveal/:token", h.Reveal)
}

// RegisterTenantRoutes registers routes scoped to the caller's tenant session.
func (h *HTTPHandler) RegisterTenantRoutes(router gin.IRoutes) {
	router.GET("/participants", h.GetParticipants)
	router.POST("/participants", h.SetParticipants)
	router.POST("/upload-participants-csv", h.UploadParticipantsCSV)
	router.POST("/draw", h.PerformDraw)
	router.GET("/assignments", h.GetAssignments)
	router.GET("/export-results-csv", h.ExportResultsCSV)
	router.DELETE("/session", h.ClearSession)
}

// TenantMiddleware identifies the tenant from the X-Tenant-ID header or the tenant
// cookie, issuing a new tenant ID when neither holds a valid one.
func (h *HTTPHandler) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeader)
		if tenantID == "" {
			tenantID, _ = c.Cookie(tenantCookie)
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			tenantID = uuid.NewString()
			c.SetCookie(tenantCookie, tenantID, tenantCookieMaxAge, "/", "", false, true)
		}

		c.Set(tenantKey, tenantID)
		c.Header(tenantHeader, tenantID)
		c.Next()
	}
}

func tenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetParticipants returns the tenant's participants together with their input rows.
func (h *HTTPHandler) GetParticipants(c *gin.Context) {
	id := tenantID(c)
	c.JSON(http.StatusOK, gin.H{
		"participants": h.service.GetParticipants(id),
		"rows":         h.service.GetRows(id),
		"state":        h.service.GetState(id).String(),
	})
}

// SetParticipants replaces the tenant's participants from JSON rows.
func (h *HTTPHandler) SetParticipants(c *gin.Context) {
	var req participantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant rows: " + err.Error()})
		return
	}

	participants := h.service.SetRows(tenantID(c), req.Rows)
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

// UploadParticipantsCSV handles the CSV upload for participants.
func (h *HTTPHandler) UploadParticipantsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("participantCSV")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving file: " + err.Error()})
		return
	}
	defer file.Close()

	rows, err := roster.ReadCSV(file)
	if err != nil {
		logger.Infof("Rejected participant CSV: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participants := h.service.SetRows(tenantID(c), rows)
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

// PerformDraw handles the request to draw assignments for the tenant's participants.
func (h *HTTPHandler) PerformDraw(c *gin.Context) {
	assignments, err := h.service.Draw(tenantID(c))
	if err != nil {
		status, message := drawError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": h.views(assignments)})
}

// drawError maps a draw failure to a status code and a user facing message.
func drawError(err error) (int, string) {
	switch {
	case errors.Is(err, matching.ErrInsufficientParticipants):
		return http.StatusUnprocessableEntity, "Please add at least two participants."
	case errors.Is(err, matching.ErrInfeasibleAssignment),
		errors.Is(err, matching.ErrDuplicateParticipant):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		logger.Errorf("Unexpected draw error: %v", err)
		return http.StatusInternalServerError, "Draw failed"
	}
}

// GetAssignments returns the tenant's current draw.
func (h *HTTPHandler) GetAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assignments": h.views(h.service.GetAssignments(tenantID(c)))})
}

func (h *HTTPHandler) views(assignments []models.Assignment) []assignmentView {
	views := make([]assignmentView, len(assignments))
	for i, a := range assignments {
		views[i] = assignmentView{
			Giver:    a.Giver,
			Receiver: a.Receiver,
			Token:    a.Token,
			Link:     reveal.Link(h.baseURL, a.Token),
		}
	}
	return views
}

// Reveal decodes the token in the path and returns its pair.
func (h *HTTPHandler) Reveal(c *gin.Context) {
	pair, ok := h.service.Reveal(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "This reveal link is invalid."})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// ClearSession drops the tenant's participants and draw.
func (h *HTTPHandler) ClearSession(c *gin.Context) {
	h.service.ClearSession(tenantID(c))
	c.Status(http.StatusNoContent)
}

// ExportResultsCSV handles the request to download the draw as a CSV file.
func (h *HTTPHandler) ExportResultsCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=secret_santa.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)

	// Write header
	if err := w.Write([]string{"giver", "receiver", "link"}); err != nil {
		logger.Infof("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	// Write data
	for _, v := range h.views(h.service.GetAssignments(tenantID(c))) {
		if err := w.Write([]string{v.Giver, v.Receiver, v.Link}); err != nil {
			logger.Infof("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Infof("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}
