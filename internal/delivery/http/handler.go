package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visara/backend/internal/domain"
	"github.com/visara/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scorer    *usecase.ScoringService
	ranker    *usecase.RankingService
	optimizer *usecase.OptimizerService
	profiles  domain.ProfileRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(
	scorer *usecase.ScoringService,
	ranker *usecase.RankingService,
	optimizer *usecase.OptimizerService,
	profiles domain.ProfileRepository,
) *Handler {
	return &Handler{
		scorer:    scorer,
		ranker:    ranker,
		optimizer: optimizer,
		profiles:  profiles,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "visara-backend",
		"version": "1.0.0",
	})
}

// analyzeRequest is the inbound contract for single-product analysis
type analyzeRequest struct {
	Product domain.ProductText `json:"product" binding:"required"`
}

// Analyze scores one product and returns the breakdown plus weakness report
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	profile, err := h.resolveProfile(c, req.Product.Category)
	if err != nil {
		return
	}

	breakdown, report, err := h.scorer.Score(c.Request.Context(), req.Product, profile)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"breakdown":  breakdown,
		"weaknesses": report,
	})
}

// rankRequest is the inbound contract for competitive ranking
type rankRequest struct {
	Target      domain.ProductText   `json:"target" binding:"required"`
	Competitors []domain.ProductText `json:"competitors"`
}

// Rank scores the target against its competitors and returns the ordering
func (h *Handler) Rank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	profile, err := h.resolveProfile(c, req.Target.Category)
	if err != nil {
		return
	}

	entries, targetRank, err := h.ranker.Rank(c.Request.Context(), req.Target, req.Competitors, profile)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":          entries,
		"target_rank":      targetRank,
		"competitor_count": len(req.Competitors),
	})
}

// optimizeRequest is the inbound contract for the optimizer loop
type optimizeRequest struct {
	Product       domain.ProductText `json:"product" binding:"required"`
	MaxIterations int                `json:"max_iterations"`
}

// Optimize runs the rewrite-and-rescore loop and returns the best candidate
func (h *Handler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	profile, err := h.resolveProfile(c, req.Product.Category)
	if err != nil {
		return
	}

	result, err := h.optimizer.Optimize(c.Request.Context(), req.Product, profile, req.MaxIterations)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Categories lists the categories the profile table knows about
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.profiles.Categories()})
}

// resolveProfile looks up the category profile and writes the error response
// itself when resolution fails
func (h *Handler) resolveProfile(c *gin.Context, category string) (*domain.CategoryProfile, error) {
	profile, err := h.profiles.Profile(category)
	if err != nil {
		h.respondError(c, err)
		return nil, err
	}
	return profile, nil
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
