package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/router"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator returns a canned provider response
type stubGenerator struct {
	out string
	err error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.out, g.err
}

type stubImages struct{ url string }

func (s stubImages) SearchImage(ctx context.Context, query string) (string, error) {
	return s.url, nil
}

type stubUploads struct{}

func (stubUploads) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty")
	}
	return "https://bucket.example.com/recipes/" + filename, nil
}

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	generator *stubGenerator
	redis     *miniredis.Miniredis
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	db := testhelpers.SetupTestDatabase(t)
	conn := database.FromDB(db)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gen := &stubGenerator{}
	users := service.NewUserService(conn, 5*time.Second)

	handlers := router.Handlers{
		Health:       api.NewHealthHandler(conn, time.Second),
		Recipes:      api.NewRecipeHandler(service.NewRecipeService(conn, 5*time.Second)),
		Interactions: api.NewInteractionHandler(service.NewInteractionService(conn, 5*time.Second), users),
		Generation:   api.NewGenerationHandler(service.NewGenerationService(gen, stubImages{url: "https://images.unsplash.com/x"})),
		Uploads:      api.NewUploadHandler(stubUploads{}),
	}
	r := router.SetupRouter(handlers, router.Options{
		Tokens:            service.NewTokenService(testhelpers.TestJWTSecret),
		Users:             users,
		GenerationLimiter: middleware.NewGenerationRateLimiter(rdb, 3),
	})

	return &testEnv{router: r, db: db, generator: gen, redis: mr}
}

// do sends a JSON request and returns the recorder
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
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

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
