package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/internal/service"
	httpTransport "github.com/sakashimaa/planary/internal/transport/http"
	"github.com/sakashimaa/planary/internal/transport/http/handler"
	"github.com/sakashimaa/planary/pkg/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, repository.ErrUserAlreadyExists
		}
	}

	stored := *user
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = &stored

	return &stored, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return u, nil
}

type memActivityRepo struct {
	activities map[uuid.UUID]*domain.Activity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{activities: make(map[uuid.UUID]*domain.Activity)}
}

func (r *memActivityRepo) Create(_ context.Context, activity *domain.Activity) (*domain.Activity, error) {
	stored := *activity
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.activities[stored.ID] = &stored

	return &stored, nil
}

func (r *memActivityRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, date *time.Time) ([]domain.Activity, error) {
	var result []domain.Activity
	for _, a := range r.activities {
		if a.UserID != ownerID {
			continue
		}
		if date != nil && !a.Date.Equal(*date) {
			continue
		}
		result = append(result, *a)
	}

	return result, nil
}

func (r *memActivityRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*domain.Activity, error) {
	a, ok := r.activities[id]
	if !ok || a.UserID != ownerID {
		return nil, repository.ErrActivityNotFound
	}

	return a, nil
}

func (r *memActivityRepo) Update(_ context.Context, activity *domain.Activity) (*domain.Activity, error) {
	existing, ok := r.activities[activity.ID]
	if !ok || existing.UserID != activity.UserID {
		return nil, repository.ErrActivityNotFound
	}

	stored := *activity
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.activities[stored.ID] = &stored

	return &stored, nil
}

func (r *memActivityRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	a, ok := r.activities[id]
	if !ok || a.UserID != ownerID {
		return repository.ErrActivityNotFound
	}

	delete(r.activities, id)

	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *token.Service) {
	t.Helper()

	logger := zap.NewNop()
	tokens := token.NewService("test_secret", 15*time.Minute, 720*time.Hour)

	authService := service.NewAuthService(newMemUserRepo(), tokens, logger)
	activityService := service.NewActivityService(newMemActivityRepo(), logger)

	app := fiber.New()

	httpTransport.RegisterRoutes(app, &httpTransport.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Activity: handler.NewActivityHandler(activityService, logger),
	}, tokens)

	return app, tokens
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body any) *http.Response {
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
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func doForm(t *testing.T, app *fiber.App, path, form string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func registerInput(email, username string) map[string]any {
	return map[string]any{
		"email":            email,
		"username":         username,
		"password":         "secret123",
		"confirm_password": "secret123",
	}
}

// registerAndLogin provisions a user and returns its token pair.
func registerAndLogin(t *testing.T, app *fiber.App, email, username string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/auth/register", "", registerInput(email, username))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)

	return body["access_token"].(string), body["refresh_token"].(string)
}
