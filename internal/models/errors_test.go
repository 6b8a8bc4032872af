package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("load post: %w", NewNotFoundError("Post", 7))

	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeValidation))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
	assert.False(t, IsCode(nil, CodeNotFound))
}

func TestNewFieldsError(t *testing.T) {
	assert.NoError(t, NewFieldsError(nil))

	err := NewFieldsError(map[string]string{"title": "Title is required"})
	require.Error(t, err)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "Title is required", appErr.Fields["title"])
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		wantCode   string
		wantField  string
		wantDetail bool
	}{
		{"field error", NewFieldError("slug", "Slug already taken"), fiber.StatusBadRequest, CodeValidation, "slug", false},
		{"not found", NewNotFoundError("Category", "travel"), fiber.StatusNotFound, CodeNotFound, "", false},
		{"internal error hides cause", NewInternalError(errors.New("db down")), fiber.StatusInternalServerError, CodeInternal, "", false},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.Empty(t, body.Details)
			if tt.wantField != "" {
				assert.Contains(t, body.Fields, tt.wantField)
			}
		})
	}
}
