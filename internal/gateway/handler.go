package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/export"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

// RateLimiter is the read-only view of the outbound limiter used by handlers.
type RateLimiter interface {
	Check() error
	Status() ratelimit.Status
}

// Generator runs the generation pipeline.
type Generator interface {
	Stream(ctx context.Context, req generation.Request, progress generation.ProgressFunc) (*generation.Result, error)
}

// Handler handles HTTP requests for the test case API
type Handler struct {
	generator Generator
	store     storage.Store
	limiter   RateLimiter
	exports   *export.Registry
	tracer    trace.Tracer
}

// NewHandler creates a new gateway handler
func NewHandler(generator Generator, store storage.Store, limiter RateLimiter, exports *export.Registry) *Handler {
	return &Handler{
		generator: generator,
		store:     store,
		limiter:   limiter,
		exports:   exports,
		tracer:    otel.Tracer("testcase-gateway"),
	}
}

// RegisterRoutes mounts the test case, export and stream routes under api.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tc := api.Group("/testcases")
	tc.POST("/generate", h.GenerateTestCases)
	tc.POST("", h.GenerateTestCases)
	tc.GET("", h.ListTestCases)
	tc.GET("/statistics", h.GetStatistics)
	tc.GET("/rate-limit", h.GetRateLimit)
	tc.GET("/:id", h.GetTestCase)
	tc.PUT("/:id", h.UpdateTestCase)
	tc.DELETE("/:id", h.DeleteTestCase)
	tc.DELETE("", h.DeleteAllTestCases)

	exp := api.Group("/export")
	exp.GET("/formats", h.ListExportFormats)
	exp.GET("/:format", h.ExportAll)
	exp.POST("/:format", h.ExportSelected)

	api.GET("/ws/generate", h.StreamGenerate)
}

// GenerateResponse is returned by the generate endpoint and the stream's result event.
type GenerateResponse struct {
	Success           bool                         `json:"success"`
	Message           string                       `json:"message"`
	TestCases         []models.TestCase            `json:"testCases"`
	Count             int                          `json:"count"`
	Scenarios         int                          `json:"scenarios"`
	Mode              generation.Mode              `json:"mode"`
	IsComprehensive   bool                         `json:"isComprehensive"`
	ScenarioBreakdown map[string]int               `json:"scenarioBreakdown,omitempty"`
	RateLimited       bool                         `json:"rateLimited"`
	RetryAfterSeconds int                          `json:"retryAfterSeconds,omitempty"`
	UsedFallback      bool                         `json:"usedFallback"`
	Warnings          []string                     `json:"warnings,omitempty"`
	Outcomes          []generation.CategoryOutcome `json:"outcomes"`
}

// GenerateTestCases godoc
// @Summary Generate test cases
// @Description Generate test cases from acceptance criteria and store them
// @Tags testcases
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Acceptance criteria and options"
// @Success 201 {object} GenerateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /testcases/generate [post]
func (h *Handler) GenerateTestCases(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "gateway.generate_test_cases")
	defer span.End()

	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request", Code: models.ErrCodeInvalidRequest, Details: map[string]string{"reason": err.Error()}})
		return
	}

	req, err := body.toRequest()
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	span.SetAttributes(attribute.String("mode", string(req.Mode())))

	if err := h.limiter.Check(); err != nil {
		respondGenerationError(c, err)
		return
	}

	resp, err := h.generate(ctx, req, nil)
	if err != nil {
		span.RecordError(err)
		respondGenerationError(c, err)
		return
	}

	if resp.RateLimited {
		c.Header("Retry-After", strconv.Itoa(resp.RetryAfterSeconds))
	}
	c.JSON(http.StatusCreated, resp)
}

// generate runs the pipeline and stores the rows.
func (h *Handler) generate(ctx context.Context, req generation.Request, progress generation.ProgressFunc) (*GenerateResponse, error) {
	result, err := h.generator.Stream(ctx, req, progress)
	if err != nil {
		return nil, err
	}

	saved, err := h.store.Insert(ctx, generation.TestCases(result.Rows))
	if err != nil {
		return nil, fmt.Errorf("failed to save test cases: %w", err)
	}

	scenarios := len(result.Scenarios)
	resp := &GenerateResponse{
		Success:           true,
		TestCases:         saved,
		Count:             len(saved),
		Scenarios:         scenarios,
		Mode:              result.Mode,
		IsComprehensive:   result.Mode == generation.ModeComprehensive,
		RateLimited:       result.RateLimited,
		RetryAfterSeconds: result.RetryAfterSeconds,
		UsedFallback:      result.UsedFallback(),
		Warnings:          result.Warnings(),
		Outcomes:          result.Outcomes,
	}
	if resp.IsComprehensive {
		resp.Message = fmt.Sprintf("Generated comprehensive test coverage: %d scenarios across all types", scenarios)
		resp.ScenarioBreakdown = map[string]int{}
		for category, n := range result.Breakdown() {
			resp.ScenarioBreakdown[string(category)] = n
		}
	} else {
		resp.Message = fmt.Sprintf("Generated %d test case scenarios with %d total rows", scenarios, len(saved))
	}

	log.Printf(`{"level":"info","message":"Test cases generated","mode":"%s","rows":%d,"scenarios":%d,"fallback":%t,"rate_limited":%t}`,
		result.Mode, len(saved), scenarios, resp.UsedFallback, resp.RateLimited)
	return resp, nil
}

// respondGenerationError maps validation, rate limit and internal errors to responses.
func respondGenerationError(c *gin.Context, err error) {
	var validationErr *generation.ValidationError
	var rateErr *ratelimit.ExceededError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   validationErr.Message,
			Code:    models.ErrCodeValidationFailed,
			Details: map[string]string{"field": validationErr.Field},
		})
	case errors.As(err, &rateErr):
		c.Header("Retry-After", strconv.Itoa(rateErr.WaitSeconds))
		c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error:   rateErr.Error(),
			Code:    models.ErrCodeRateLimited,
			Details: map[string]string{"window": string(rateErr.Window), "retryAfterSeconds": strconv.Itoa(rateErr.WaitSeconds)},
		})
	default:
		log.Printf(`{"level":"error","message":"Test case generation failed","error":%q}`, err.Error())
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "An unexpected error occurred while generating test cases",
			Code:  models.ErrCodeInternalError,
		})
	}
}

// ListTestCases godoc
// @Summary List test cases
// @Description List stored rows, newest generation first
// @Tags testcases
// @Produce json
// @Param scenarioType query string false "Scenario type"
// @Param state query string false "State"
// @Param priority query string false "Priority"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /testcases [get]
func (h *Handler) ListTestCases(c *gin.Context) {
	filter := storage.Filter{
		ScenarioType: c.Query("scenarioType"),
		State:        c.Query("state"),
		Priority:     c.Query("priority"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a non-negative integer", Code: models.ErrCodeInvalidRequest})
			return
		}
		filter.Limit = limit
	}

	rows, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, "Failed to fetch test cases", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows), "testCases": rows})
}

// GetStatistics godoc
// @Summary Test case statistics
// @Tags testcases
// @Produce json
// @Success 200 {object} models.Statistics
// @Router /testcases/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.store.Statistics(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRateLimit godoc
// @Summary Outbound rate limit status
// @Tags testcases
// @Produce json
// @Success 200 {object} ratelimit.Status
// @Router /testcases/rate-limit [get]
func (h *Handler) GetRateLimit(c *gin.Context) {
	c.JSON(http.StatusOK, h.limiter.Status())
}

// GetTestCase godoc
// @Summary Get test case
// @Tags testcases
// @Produce json
// @Param id path string true "Row ID"
// @Success 200 {object} models.TestCase
// @Failure 404 {object} models.ErrorResponse
// @Router /testcases/{id} [get]
func (h *Handler) GetTestCase(c *gin.Context) {
	tc, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "Failed to fetch test case", err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

// UpdateTestCase godoc
// @Summary Update test case
// @Description Merge the given fields into a stored row
// @Tags testcases
// @Accept json
// @Produce json
// @Param id path string true "Row ID"
// @Param request body models.TestCaseUpdate true "Fields to change"
// @Success 200 {object} models.TestCase
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /testcases/{id} [put]
func (h *Handler) UpdateTestCase(c *gin.Context) {
	var patch models.TestCaseUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request", Code: models.ErrCodeInvalidRequest, Details: map[string]string{"reason": err.Error()}})
		return
	}

	tc, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.storeError(c, "Failed to update test case", err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

// DeleteTestCase godoc
// @Summary Delete test case
// @Tags testcases
// @Produce json
// @Param id path string true "Row ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /testcases/{id} [delete]
func (h *Handler) DeleteTestCase(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, "Failed to delete test case", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test case deleted successfully"})
}

// DeleteAllTestCases godoc
// @Summary Delete all test cases
// @Tags testcases
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /testcases [delete]
func (h *Handler) DeleteAllTestCases(c *gin.Context) {
	n, err := h.store.DeleteAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to delete test cases", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("%d test cases deleted successfully", n),
		"deletedCount": n,
	})
}

func (h *Handler) storeError(c *gin.Context, message string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Test case not found", Code: models.ErrCodeNotFound})
		return
	}
	h.internalError(c, message, err)
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	log.Printf(`{"level":"error","message":%q,"path":"%s","error":%q}`, message, c.FullPath(), err.Error())
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message, Code: models.ErrCodeInternalError})
}

// CORS answers preflight requests and sets the allow headers for origin.
func CORS(origin string) gin.HandlerFunc {
	if strings.TrimSpace(origin) == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "Retry-After, Content-Disposition")
		if origin != "*" {
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
