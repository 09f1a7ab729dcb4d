package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefeed/backend/internal/service"
)

// respondError maps a service error onto the uniform JSON error shape
// {error, details?}. Every failure is terminal for the request and yields
// exactly one JSON object.
func respondError(c *gin.Context, err error) {
	var upstream *service.UpstreamError
	var parse *service.ParseError

	switch {
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong),
		errors.Is(err, service.ErrInvalidSignup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &upstream):
		body := gin.H{"error": upstream.Error()}
		if upstream.Detail != "" {
			body["details"] = upstream.Detail
		}
		if upstream.StatusCode != 0 {
			body["http_code"] = upstream.StatusCode
		}
		c.JSON(http.StatusInternalServerError, body)

	case errors.As(err, &parse):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   parse.Error(),
			"details": gin.H{"raw_text": parse.RawText},
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
