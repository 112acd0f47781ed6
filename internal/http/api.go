package http

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"careerai/internal/domain"
	"careerai/internal/service"
	"careerai/internal/session"
	"careerai/internal/voice"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	assessments service.AssessmentService
	sessions    *session.Manager
	limiter     *ipRateLimiter
	clips       ClipSource
	logger      logrus.FieldLogger
}

// ClipSource locates synthesized announcement clips by ID.
type ClipSource interface {
	ClipPath(id string) (string, error)
}

type Options struct {
	LoginRatePerSecond float64
	LoginBurst         int
	// Clips is nil when voice output is disabled.
	Clips  ClipSource
	Logger logrus.FieldLogger
}

func NewHandler(users service.UserService, assessments service.AssessmentService, sessions *session.Manager, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Handler{
		users:       users,
		assessments: assessments,
		sessions:    sessions,
		limiter:     newIPRateLimiter(opts.LoginRatePerSecond, opts.LoginBurst),
		clips:       opts.Clips,
		logger:      opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		auth.POST("/register", h.limiter.middleware(), h.register)
		auth.POST("/login", h.limiter.middleware(), h.login)

		protected := api.Group("", h.requireSession())
		protected.POST("/auth/logout", h.logout)
		protected.GET("/session", h.currentSession)
		protected.POST("/assessments", h.analyze)
		protected.GET("/announcements/:id", h.announcementClip)
		protected.GET("/records", h.listRecords)
		protected.GET("/records/export", h.exportRecords)
		protected.POST("/records/archive", h.archiveRecords)
		protected.GET("/records/archive", h.listArchives)
		protected.GET("/market-trends", h.marketTrends)
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token    string        `json:"token,omitempty"`
	Username string        `json:"username"`
	State    session.State `json:"state"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithField("user", user.Username).Info("user registered")
	h.startSession(c, http.StatusCreated, user.Username)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.startSession(c, http.StatusOK, user.Username)
}

func (h *Handler) startSession(c *gin.Context, status int, username string) {
	sess, token, err := h.sessions.Start(c.Request.Context(), username)
	if err != nil {
		h.logger.WithError(err).Error("start session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}
	c.JSON(status, sessionResponse{Token: token, Username: sess.Username, State: sess.State})
}

func (h *Handler) logout(c *gin.Context) {
	sess := sessionFrom(c)
	if err := h.sessions.Logout(c.Request.Context(), sess); err != nil {
		h.logger.WithError(err).Error("logout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{State: sess.State})
}

func (h *Handler) currentSession(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, sessionResponse{Username: sess.Username, State: sess.State})
}

type analyzeRequest struct {
	Logical       *int `json:"logical" binding:"required"`
	Coding        *int `json:"coding" binding:"required"`
	Communication *int `json:"communication" binding:"required"`
	Creativity    *int `json:"creativity" binding:"required"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scores := domain.Scores{
		Logical:       *req.Logical,
		Coding:        *req.Coding,
		Communication: *req.Communication,
		Creativity:    *req.Creativity,
	}

	analysis, err := h.assessments.Analyze(c.Request.Context(), sessionFrom(c), scores)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithFields(logrus.Fields{
		"user":         analysis.Record.Username,
		"career":       analysis.Record.PredictedCareer,
		"announcement": analysis.Announcement,
	}).Info("assessment recorded")
	c.JSON(http.StatusCreated, analysisToResponse(analysis))
}

func (h *Handler) announcementClip(c *gin.Context) {
	if h.clips == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "voice output is disabled"})
		return
	}
	path, err := h.clips.ClipPath(c.Param("id"))
	if err != nil {
		if !errors.Is(err, voice.ErrClipNotFound) {
			h.logger.WithError(err).Error("locate announcement clip")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "announcement not available"})
		return
	}
	c.File(path)
}

func (h *Handler) listRecords(c *gin.Context) {
	records, err := h.assessments.History(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]RecordResponse, len(records))
	for i := range records {
		resp[i] = recordToResponse(records[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) exportRecords(c *gin.Context) {
	report, err := h.assessments.Export(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": report.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, report.ContentType+"; charset=utf-8", report.Data)
}

func (h *Handler) archiveRecords(c *gin.Context) {
	archived, err := h.assessments.Archive(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, archiveToResponse(*archived))
}

func (h *Handler) listArchives(c *gin.Context) {
	archives, err := h.assessments.ListArchives(c.Request.Context(), sessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]ArchiveResponse, len(archives))
	for i := range archives {
		resp[i] = archiveToResponse(archives[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) marketTrends(c *gin.Context) {
	c.JSON(http.StatusOK, h.assessments.MarketTrends())
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorage):
		h.logger.WithError(err).Error("storage failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save or load your data, please retry"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type RecordResponse struct {
	Username      string `json:"username"`
	Career        string `json:"career"`
	Logical       int    `json:"logical"`
	Coding        int    `json:"coding"`
	Communication int    `json:"communication"`
	Creativity    int    `json:"creativity"`
	Timestamp     string `json:"timestamp"`
}

type AnalysisResponse struct {
	Record            RecordResponse           `json:"record"`
	Confidence        float64                  `json:"confidence"`
	ConfidencePercent float64                  `json:"confidence_percent"`
	Probabilities     map[string]float64       `json:"probabilities"`
	Advice            []service.Advice         `json:"advice"`
	Radar             []service.RadarPoint     `json:"radar"`
	Benchmark         []service.BenchmarkPoint `json:"benchmark"`
	Announcement      string                   `json:"announcement"`
	AnnouncementClip  string                   `json:"announcement_clip,omitempty"`
}

type ArchiveResponse struct {
	Key          string  `json:"key"`
	Location     string  `json:"location,omitempty"`
	URL          string  `json:"url"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func recordToResponse(r domain.AssessmentRecord) RecordResponse {
	return RecordResponse{
		Username:      r.Username,
		Career:        r.PredictedCareer,
		Logical:       r.Logical,
		Coding:        r.Coding,
		Communication: r.Communication,
		Creativity:    r.Creativity,
		Timestamp:     r.Timestamp.UTC().Format(domain.TimestampLayout),
	}
}

func analysisToResponse(a *service.Analysis) AnalysisResponse {
	return AnalysisResponse{
		Record:            recordToResponse(a.Record),
		Confidence:        a.Confidence,
		ConfidencePercent: a.ConfidencePercent,
		Probabilities:     a.Probabilities,
		Advice:            a.Advice,
		Radar:             a.Radar,
		Benchmark:         a.Benchmark,
		Announcement:      string(a.Announcement),
		AnnouncementClip:  a.AnnouncementClip,
	}
}

func archiveToResponse(a service.ArchivedReport) ArchiveResponse {
	resp := ArchiveResponse{
		Key:      a.Key,
		Location: a.Location,
		URL:      a.URL,
		Size:     a.Size,
	}
	if a.LastModified != nil {
		ts := a.LastModified.UTC().Format(time.RFC3339)
		resp.LastModified = &ts
	}
	return resp
}
