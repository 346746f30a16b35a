package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func TestGenerateEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := testhelpers.NewToken(t, user)
	env.generator.out = "```json\n{\"title\":\"Miso Soup\",\"description\":\"Warm.\",\"ingredients\":[\"miso\"],\"steps\":[\"Whisk\"]}\n```"

	w := env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": "miso soup"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"recipe":{
		"title":"Miso Soup",
		"description":"Warm.",
		"ingredients":["miso"],
		"steps":["Whisk"],
		"image":"https://images.unsplash.com/x",
		"source":"ai+unsplash"
	}}`, w.Body.String())
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
}

func TestGenerateEndpointErrors(t *testing.T) {
	env := setupTestRouter(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := testhelpers.NewToken(t, user)

	w := env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.generator.out = "I cannot help with that."
	w = env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": "soup"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body middleware.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "I cannot help with that.", body.Raw)
	assert.NotEmpty(t, body.Error)

	env.generator.out, env.generator.err = "", errors.New("quota exceeded")
	w = env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": "soup"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	decode(t, w, &body)
	assert.True(t, body.Retryable)

	// Three calls used the hourly allowance
	w = env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": "soup"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGenerationQuotaEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := testhelpers.NewToken(t, user)
	env.generator.out = `{"title":"Miso Soup","ingredients":["miso"],"steps":["Whisk"]}`

	var quota middleware.Quota
	w := env.do(t, http.MethodGet, "/api/v1/ai-recipe/quota", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &quota)
	assert.True(t, quota.Enabled)
	assert.Equal(t, 3, quota.Limit)
	assert.Equal(t, 3, quota.Remaining)
	assert.NotNil(t, quota.ResetAt)

	w = env.do(t, http.MethodPost, "/api/v1/ai-recipe", token, map[string]string{"query": "miso soup"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Reading the quota does not use it up
	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodGet, "/api/v1/ai-recipe/quota", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &quota)
		assert.Equal(t, 2, quota.Remaining)
	}

	w = env.do(t, http.MethodGet, "/api/v1/ai-recipe/quota", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
