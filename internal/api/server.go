package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gazecenter/app"
	"gazecenter/domain/core"
	"gazecenter/domain/gaze"
	"gazecenter/internal"
	"gazecenter/internal/errors"
	"gazecenter/ports"
)

// Config holds API server settings
type Config struct {
	DefaultRadiusDeg float64
	UploadMaxBytes   int64
	HistoryLimit     int
}

// Server is the JSON API over the analysis service
type Server struct {
	service *app.AnalysisService
	hub     *SSEHub
	router  *gin.Engine
	config  Config
	logger  *internal.Logger
}

// NewServer creates the API and registers its routes under /api/v1. hub may
// be nil, in which case no event stream is served.
func NewServer(service *app.AnalysisService, hub *SSEHub, config Config) *Server {
	if config.DefaultRadiusDeg == 0 {
		config.DefaultRadiusDeg = gaze.DefaultRadiusDeg
	}
	if config.UploadMaxBytes <= 0 {
		config.UploadMaxBytes = 10 << 20
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 50
	}

	s := &Server{
		service: service,
		hub:     hub,
		router:  gin.New(),
		config:  config,
		logger:  internal.DefaultLogger.With("API"),
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.GET("/participants", s.handleParticipants)
	v1.GET("/participants/:id/analysis", s.handleParticipantAnalysis)
	v1.GET("/aggregate/analysis", s.handleAggregateAnalysis)
	v1.POST("/analysis", s.handleUploadAnalysis)
	v1.GET("/history", s.handleHistory)
	v1.GET("/export.xlsx", s.handleExport)
	if s.hub != nil {
		v1.GET("/events", s.hub.HandleSSE)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"source": s.service.Source(),
		"device": s.service.Device(),
	})
}

func (s *Server) handleParticipants(c *gin.Context) {
	ids, err := s.service.Participants(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if ids == nil {
		ids = []core.ParticipantID{}
	}
	c.JSON(http.StatusOK, gin.H{"participants": ids})
}

func (s *Server) handleParticipantAnalysis(c *gin.Context) {
	id, err := core.ParseParticipantID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	radius, err := s.radius(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	req := app.AnalysisRequest{Scope: ports.ScopeIndividual, ParticipantID: id, RadiusDeg: radius}
	if raw := c.Query("upload"); raw != "" {
		uploadID, err := core.ParseUploadID(raw)
		if err != nil {
			s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
			return
		}
		req.UploadID = uploadID
	}
	s.analyze(c, req)
}

func (s *Server) handleAggregateAnalysis(c *gin.Context) {
	radius, err := s.radius(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.analyze(c, app.AnalysisRequest{Scope: ports.ScopeAggregate, RadiusDeg: radius})
}

// handleUploadAnalysis stores an uploaded recording and analyzes it
func (s *Server) handleUploadAnalysis(c *gin.Context) {
	filename, payload, err := ReadUpload(c.Writer, c.Request, s.config.UploadMaxBytes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	radius, err := s.radius(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	upload, _, err := s.service.StoreUpload(filename, payload)
	if err != nil {
		s.respondError(c, err)
		return
	}
	analysis, err := s.service.Analyze(c.Request.Context(), app.AnalysisRequest{
		Scope: ports.ScopeIndividual, UploadID: upload.ID, RadiusDeg: radius,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"upload_id": upload.ID, "analysis": analysis})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := s.config.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(c, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := s.service.History(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if records == nil {
		records = []ports.SummaryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (s *Server) handleExport(c *gin.Context) {
	radius, err := s.radius(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.service.Export(c.Request.Context(), &buf, radius); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="gaze-summaries.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) analyze(c *gin.Context, req app.AnalysisRequest) {
	analysis, err := s.service.Analyze(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// radius reads the radius query or form value, falling back to the default
func (s *Server) radius(c *gin.Context) (float64, error) {
	raw := c.Query("radius")
	if raw == "" {
		raw = c.PostForm("radius")
	}
	return ParseRadius(raw, s.config.DefaultRadiusDeg)
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

// ParseRadius parses a radius in degrees; empty means def
func ParseRadius(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput("radius must be a number of degrees")
	}
	snapped, err := gaze.SnapRadius(v)
	if err != nil {
		return 0, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return snapped, nil
}
