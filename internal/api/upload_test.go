package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func TestUploadEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := testhelpers.NewToken(t, user)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "pie.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://bucket.example.com/recipes/pie.jpg"}`, w.Body.String())
}

func TestUploadEndpointWithoutFile(t *testing.T) {
	env := setupTestRouter(t)
	user := testhelpers.CreateUser(t, env.db, "alice")

	w := env.do(t, http.MethodPost, "/api/v1/upload", testhelpers.NewToken(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
