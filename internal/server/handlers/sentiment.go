package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/logger"
	"github.com/cinemind/cinemind/internal/sentiment"
)

// SentimentHandler serves the per-movie review sentiment summary.
type SentimentHandler struct {
	db       *gorm.DB
	analyzer sentiment.Analyzer
}

func NewSentimentHandler(db *gorm.DB, analyzer sentiment.Analyzer) *SentimentHandler {
	return &SentimentHandler{db: db, analyzer: analyzer}
}

// Analyze summarizes the stored reviews of one movie. A movie without
// reviews is a 400, an upstream model failure is a 500 with the cause in the
// envelope.
func (h *SentimentHandler) Analyze(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Movie with ID %s not found", idStr)})
		return
	}

	var movie database.Movie
	if err := h.db.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Movie with ID %d not found", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve movie"})
		return
	}

	if movie.Reviews == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No reviews available for this movie"})
		return
	}

	summary, err := h.analyzer.Summarize(c.Request.Context(), movie.Reviews)
	if err != nil {
		logger.Named("sentiment").Error("sentiment analysis failed", "movie_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to analyze sentiment: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movie_id":           movie.ID,
		"title":              movie.Title,
		"sentiment_analysis": summary,
	})
}
