package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefeed/backend/internal/service"
)

// RecommendHandler serves the AI recommendation endpoint.
type RecommendHandler struct {
	recommend *service.RecommendService
}

func NewRecommendHandler(recommend *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommend: recommend}
}

func (h *RecommendHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/recommend", h.Recommend)
}

// Recommend handles POST /recommend: one synchronous pass through the
// OMDb + Gemini pipeline.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.recommend.Recommend(c.Request.Context(), req.Title, req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
