package opportunity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"milhas/internal/classifier"
	"milhas/internal/constants"
	"milhas/internal/logger"
	"milhas/pkg/errors"
)

type BaseHandler struct {
	Service Service
	Logger  logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type Handler struct {
	BaseHandler
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analyze)

		opportunities := v1.Group("/opportunities")
		{
			opportunities.GET("", h.ListOpportunities)
			opportunities.PATCH("/:id/status", h.UpdateStatus)
		}

		v1.GET("/market-data/:program", h.GetMarketData)
		v1.POST("/market-trends", h.MarketTrends)

		users := v1.Group("/users")
		{
			users.GET("/:id/profile", h.GetProfile)
			users.PUT("/:id/profile", h.PutProfile)
			users.POST("/:id/recommendations", h.Recommendations)
		}

		v1.GET("/statistics", h.GetStatistics)
		v1.POST("/cleanup", h.Cleanup)
	}
}

type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

type AnalyzeResponse struct {
	Skipped     bool               `json:"skipped"`
	Result      *classifier.Result `json:"result,omitempty"`
	Opportunity *Record            `json:"opportunity,omitempty"`
}

// Analyze godoc
// @Summary      Classify ad-hoc text
// @Description  Run the extraction and classification pipeline on submitted text
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        request  body      AnalyzeRequest  true  "Text to classify"
// @Success      200      {object}  AnalyzeResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      422      {object}  errors.ErrorResponse
// @Failure      502      {object}  errors.ErrorResponse
// @Router       /analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	result, rec, err := h.Service.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Skipped:     result == nil,
		Result:      result,
		Opportunity: rec,
	})
}

// ListOpportunities godoc
// @Summary      List stored opportunities
// @Description  List opportunities filtered by program, confidence and status
// @Tags         opportunities
// @Produce      json
// @Param        program         query     string   false  "Mileage program"
// @Param        min_confidence  query     number   false  "Minimum confidence"
// @Param        status          query     string   false  "Record status"
// @Param        limit           query     integer  false  "Maximum records"
// @Success      200  {array}   Record
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /opportunities [get]
func (h *Handler) ListOpportunities(c *gin.Context) {
	filter := ListFilter{
		Program: c.Query("program"),
		Status:  c.Query("status"),
	}

	if raw := c.Query("min_confidence"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 || value > 1 {
			c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithDetail("min_confidence", raw)))
			return
		}
		filter.MinConfidence = value
	} else {
		filter.MinConfidence = constants.DefaultMinConfidence
	}

	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithDetail("limit", raw)))
			return
		}
		filter.Limit = value
	}

	records, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary      Update opportunity status
// @Description  Move an opportunity between active, expired and completed
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Opportunity ID"
// @Param        request  body      UpdateStatusRequest  true  "New status"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      404      {object}  errors.ErrorResponse
// @Router       /opportunities/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	id := c.Param("id")
	if err := h.Service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// GetMarketData godoc
// @Summary      Get market data for a program
// @Description  Current snapshot stats plus recent price history
// @Tags         market
// @Produce      json
// @Param        program  path      string   true   "Mileage program"
// @Param        days     query     integer  false  "History window in days"
// @Success      200      {object}  MarketData
// @Failure      404      {object}  errors.ErrorResponse
// @Router       /market-data/{program} [get]
func (h *Handler) GetMarketData(c *gin.Context) {
	days := h.queryDays(c, constants.DefaultMarketDays)

	data, err := h.Service.MarketData(c.Request.Context(), c.Param("program"), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// MarketTrends godoc
// @Summary      Run a market trend analysis
// @Description  Analyze stored price history across all tracked programs
// @Tags         market
// @Produce      json
// @Param        days  query     integer  false  "History window in days"
// @Success      200   {object}  classifier.TrendReport
// @Failure      422   {object}  errors.ErrorResponse
// @Failure      502   {object}  errors.ErrorResponse
// @Router       /market-trends [post]
func (h *Handler) MarketTrends(c *gin.Context) {
	days := h.queryDays(c, constants.DefaultMarketDays)

	report, err := h.Service.MarketTrends(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetProfile godoc
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserProfile
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /users/{id}/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Service.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PutProfile godoc
// @Summary      Create or replace a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "User ID"
// @Param        profile  body      UserProfile  true  "Profile data"
// @Success      200      {object}  UserProfile
// @Failure      400      {object}  errors.ErrorResponse
// @Router       /users/{id}/profile [put]
func (h *Handler) PutProfile(c *gin.Context) {
	var profile UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}
	profile.UserID = c.Param("id")

	if err := h.Service.SaveProfile(c.Request.Context(), &profile); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Recommendations godoc
// @Summary      Generate personalized recommendations
// @Description  Build recommendations from the stored profile and current market snapshot
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  classifier.RecommendationSet
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      422  {object}  errors.ErrorResponse
// @Failure      502  {object}  errors.ErrorResponse
// @Router       /users/{id}/recommendations [post]
func (h *Handler) Recommendations(c *gin.Context) {
	set, err := h.Service.Recommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// GetStatistics godoc
// @Summary      Aggregate opportunity statistics
// @Tags         opportunities
// @Produce      json
// @Success      200  {object}  Statistics
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.Service.Statistics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Cleanup godoc
// @Summary      Expire and purge old data
// @Description  Expire stale active opportunities and delete old raw messages
// @Tags         opportunities
// @Produce      json
// @Param        days  query     integer  false  "Age cutoff in days"
// @Success      200   {object}  map[string]int64
// @Failure      500   {object}  errors.ErrorResponse
// @Router       /cleanup [post]
func (h *Handler) Cleanup(c *gin.Context) {
	days := h.queryDays(c, constants.DefaultCleanupDays)

	affected, err := h.Service.Cleanup(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

func (h *BaseHandler) queryDays(c *gin.Context, fallback int) int {
	raw := c.Query("days")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
