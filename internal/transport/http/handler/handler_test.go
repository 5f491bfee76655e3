package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-bookshelf/internal/core/auth"
	"go-gin-bookshelf/internal/core/database"
	"go-gin-bookshelf/internal/domain"
	"go-gin-bookshelf/internal/transport/http/router"
)

type testEnv struct {
	t   *testing.T
	DB  *gorm.DB
	R   *gin.Engine
	JWT *auth.JWTer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Book{}))

	jwter := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "bookshelf-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}

	return &testEnv{
		t:   t,
		DB:  db,
		R:   router.NewAPIEngine(zap.NewNop(), db, jwter, nil),
		JWT: jwter,
	}
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.R.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	e.t.Helper()
	var out map[string]any
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) register(username, password string) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/register", gin.H{"username": username, "password": password}, "")
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) login(username, password string) (authToken, refreshToken string) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, "")
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	body := e.decode(rec)
	authToken, _ = body["authToken"].(string)
	refreshToken, _ = body["refreshToken"].(string)
	require.NotEmpty(e.t, authToken)
	require.NotEmpty(e.t, refreshToken)
	return authToken, refreshToken
}

// requireSingleJSON 断言 body 里只有一个 JSON 文档：错误分支必须提前 return，
// 不允许出现 “错误响应 + 后续覆盖” 两段
func requireSingleJSON(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	var first any
	require.NoError(t, dec.Decode(&first))
	require.False(t, dec.More(), "more than one JSON document in response: %s", rec.Body.String())
}
