package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefeed/backend/internal/service"
)

func newProxyRouter(t *testing.T) (*gin.Engine, *url.Values) {
	t.Helper()

	var lastQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query()
		w.Write([]byte(`{"Search":[{"Title":"Inception","imdbID":"tt1375666"}],"Response":"True"}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("OMDB_API_URL", srv.URL)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewProxyHandler(service.NewOMDbClient("proxy-key")).RegisterRoutes(router)
	return router, &lastQuery
}

func TestProxyRequiresQuery(t *testing.T) {
	router, _ := newProxyRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/proxy", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title, ID, or Search query is required"}`, w.Body.String())
}

func TestProxyPassesBodyVerbatim(t *testing.T) {
	router, lastQuery := newProxyRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/proxy?s=incep&y=2010", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"Search":[{"Title":"Inception","imdbID":"tt1375666"}],"Response":"True"}`, w.Body.String())

	q := *lastQuery
	assert.Equal(t, "incep", q.Get("s"))
	assert.Equal(t, "2010", q.Get("y"))
	assert.Equal(t, "short", q.Get("plot"), "plot defaults to short")
	assert.Equal(t, "proxy-key", q.Get("apikey"), "server key must be attached")
	assert.Empty(t, q.Get("t"))
}

func TestProxyForwardsTitleAndPlot(t *testing.T) {
	router, lastQuery := newProxyRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/proxy?t=Inception&plot=full", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	q := *lastQuery
	assert.Equal(t, "Inception", q.Get("t"))
	assert.Equal(t, "full", q.Get("plot"))
}
