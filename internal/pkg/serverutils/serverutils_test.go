package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflective-notes-be/pkg/annotate"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestJwtMiddleware(t *testing.T) {
	SetJwtSecret("test-secret")
	defer SetJwtSecret("")

	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	token, err := SignUserToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + token, status: fiber.StatusOK},
		{name: "missing", header: "", status: fiber.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user-1", string(body))
			}
		})
	}
}

func TestOptionalJwtMiddleware(t *testing.T) {
	SetJwtSecret("test-secret")
	defer SetJwtSecret("")

	app := fiber.New()
	app.Get("/ws", OptionalJwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	token, err := SignUserToken("user-2")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/ws?token="+token, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "user-2", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/ws?token=bad", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Empty(t, string(body))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "app error", err: NotFound("Note not found"), status: fiber.StatusNotFound},
		{name: "wrapped app error", err: fmt.Errorf("show: %w", Forbidden("nope")), status: fiber.StatusForbidden},
		{name: "fiber error", err: fiber.NewError(fiber.StatusBadRequest, "bad body"), status: fiber.StatusBadRequest},
		{name: "conflict", err: fmt.Errorf("update: %w", annotate.ErrPersistenceConflict), status: fiber.StatusConflict},
		{name: "unknown", err: errors.New("db down"), status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware(nil))
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			env := decode(t, resp.Body)
			assert.False(t, env.Success)
			assert.Equal(t, tt.status, env.Code)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type profileRequest struct {
		Email    string `json:"email" validate:"omitempty,email"`
		Username string `json:"username" validate:"required,max=32"`
	}

	assert.NoError(t, ValidateRequest(profileRequest{Username: "ada"}))

	err := ValidateRequest(profileRequest{Email: "not-an-email"})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusBadRequest, appErr.Status)
	assert.Equal(t, map[string]string{"email": "email", "username": "required"}, appErr.Details)
}
