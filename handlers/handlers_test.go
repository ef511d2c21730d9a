package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkpost/blog-backend/auth"
	"github.com/inkpost/blog-backend/database"
	"github.com/inkpost/blog-backend/handlers"
	"github.com/inkpost/blog-backend/store"
)

const (
	testSecret   = "test-signing-secret"
	testPassword = "correct horse battery"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenService
}

// newTestEnv wires a full API against an isolated sqlite database with one
// admin user provisioned.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "blog.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	creds := store.NewCredentialStore(db, bcrypt.MinCost)
	_, err = creds.CreateOrUpdate(context.Background(), "admin", testPassword)
	require.NoError(t, err)

	authHandler := handlers.NewAuth(creds, tokens, log)
	postsHandler := handlers.NewPosts(store.NewContentStore(db), log)

	router := gin.New()
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/verify", authHandler.Verify)

		posts := api.Group("/posts")
		posts.GET("", postsHandler.List)
		posts.GET("/slug/:slug", postsHandler.GetBySlug)

		admin := posts.Group("")
		admin.Use(authHandler.RequireAuth())
		admin.GET("/admin/all", postsHandler.AdminList)
		admin.POST("", postsHandler.Create)
		admin.PUT("/:id", postsHandler.Update)
		admin.DELETE("/:id", postsHandler.Delete)
	}

	return &testEnv{router: router, db: db, tokens: tokens}
}

// request performs an HTTP call against the test router. A non-empty token is
// sent as a bearer credential; a non-nil body is JSON-encoded.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login returns a valid bearer token for the seeded admin.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func samplePost(title string, tags ...string) gin.H {
	if tags == nil {
		tags = []string{}
	}
	return gin.H{
		"title":   title,
		"excerpt": "An excerpt",
		"content": "Full content body",
		"date":    "2024-03-01",
		"tags":    tags,
	}
}
