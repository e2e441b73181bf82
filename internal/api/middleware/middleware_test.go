package middleware

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/security"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func notBlacklisted(context.Context, string) (bool, error) { return false, nil }

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Response{
		Code: 200,
		Data: gin.H{"uid": c.GetUint64(consts.UserIDKey), "roles": c.GetStringSlice(consts.RolesKey)},
	})
}

func serve(t *testing.T, r *gin.Engine, token string) (dto.Response, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp, w
}

func TestAuthMiddleware(t *testing.T) {
	token, err := security.GenerateToken(5, []string{consts.RoleAuthor})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", AuthMiddleware(notBlacklisted), whoami)

	resp, _ := serve(t, r, token)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, float64(5), resp.Data.(map[string]any)["uid"])

	resp, _ = serve(t, r, "")
	assert.Equal(t, 401, resp.Code)

	resp, _ = serve(t, r, token+"x")
	assert.Equal(t, 401, resp.Code)
}

func TestAuthMiddleware_Blacklist(t *testing.T) {
	token, err := security.GenerateToken(5, nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", AuthMiddleware(func(context.Context, string) (bool, error) { return true, nil }), whoami)
	resp, _ := serve(t, r, token)
	assert.Equal(t, 401, resp.Code)

	r = gin.New()
	r.GET("/x", AuthMiddleware(func(context.Context, string) (bool, error) { return false, errors.New("redis down") }), whoami)
	resp, _ = serve(t, r, token)
	assert.Equal(t, 500, resp.Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthOptionalMiddleware(), whoami)

	resp, _ := serve(t, r, "garbage")
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, float64(0), resp.Data.(map[string]any)["uid"])
}

func TestCheckRoles(t *testing.T) {
	modToken, err := security.GenerateToken(9, []string{consts.RoleContentMod})
	require.NoError(t, err)
	authorToken, err := security.GenerateToken(5, []string{consts.RoleAuthor})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", AuthMiddleware(notBlacklisted), CheckRoles(consts.RoleContentMod, consts.RoleAdmin), whoami)

	resp, _ := serve(t, r, modToken)
	assert.Equal(t, 200, resp.Code)

	resp, _ = serve(t, r, authorToken)
	assert.Equal(t, 403, resp.Code)
}

func TestTraceMiddleware_EchoesHeader(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/x", whoami)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(traceHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get(traceHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(traceHeader))
}
