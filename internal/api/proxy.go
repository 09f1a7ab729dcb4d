package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/cinefeed/backend/internal/service"
)

// ProxyHandler passes metadata queries through to OMDb with the
// server-side key attached. This is the single trust boundary for the key:
// browsers talk only to this endpoint, never to OMDb directly.
type ProxyHandler struct {
	omdb *service.OMDbClient
}

func NewProxyHandler(omdb *service.OMDbClient) *ProxyHandler {
	return &ProxyHandler{omdb: omdb}
}

func (h *ProxyHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/proxy", h.Proxy)
}

// Proxy handles GET /proxy with OMDb's own query parameters: t (title),
// i (IMDb id), s (search), plus y and plot. The provider's JSON is
// returned verbatim.
func (h *ProxyHandler) Proxy(c *gin.Context) {
	title := c.Query("t")
	id := c.Query("i")
	search := c.Query("s")
	if title == "" && id == "" && search == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, ID, or Search query is required"})
		return
	}

	params := url.Values{}
	if title != "" {
		params.Set("t", title)
	}
	if id != "" {
		params.Set("i", id)
	}
	if search != "" {
		params.Set("s", search)
	}
	if year := c.Query("y"); year != "" {
		params.Set("y", year)
	}
	plot := c.Query("plot")
	if plot == "" {
		plot = "short"
	}
	params.Set("plot", plot)

	body, err := h.omdb.Raw(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
