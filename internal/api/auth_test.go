package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefeed/backend/internal/service"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	router := gin.New()
	NewAuthHandler(service.NewAuthService(db, "test-secret"), nil).RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupLoginMeFlow(t *testing.T) {
	router := newAuthRouter(t)

	w := postJSON(router, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var signup struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.True(t, signup.OK)
	require.NotEmpty(t, signup.Token)

	w = postJSON(router, "/auth/login", `{"email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var me struct {
		User struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &me))
	assert.Equal(t, "Ada", me.User.Name)
	assert.Equal(t, "ada@example.com", me.User.Email)
	assert.NotContains(t, w2.Body.String(), "password_hash")
}

func TestSignupDuplicateEmailReturns409(t *testing.T) {
	router := newAuthRouter(t)

	w := postJSON(router, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/auth/signup", `{"name":"Ada Again","email":"ada@example.com","password":"hunter22"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	router := newAuthRouter(t)

	w := postJSON(router, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeWithoutTokenReturns401(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutIsStateless(t *testing.T) {
	router := newAuthRouter(t)

	w := postJSON(router, "/auth/logout", ``)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestAvatarUnavailableWithoutStorage(t *testing.T) {
	router := newAuthRouter(t)

	w := postJSON(router, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))

	req := httptest.NewRequest(http.MethodPost, "/auth/avatar", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusServiceUnavailable, w2.Code)
}
