package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
)

// recipeID reads the :id path parameter. Identifiers that cannot name a
// recipe are reported as not found.
func recipeID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound("recipe")
	}
	return id, nil
}

// currentUser returns the authenticated caller
func currentUser(c *gin.Context) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized("authentication required")
	}
	return id, nil
}

// bindJSON decodes the request body into v. An empty body is allowed when
// optional is set.
func bindJSON(c *gin.Context, v interface{}, optional bool) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validation("invalid request body", map[string]string{
			"body": "request body must be valid JSON",
		})
	}
	return nil
}
