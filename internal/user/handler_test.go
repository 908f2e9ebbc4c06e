// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

func newAdminRouter(svc *Service, actorID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), &middleware.AccessTokenClaims{
				UserID: actorID,
				Role:   core.RoleAdmin,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(svc).RegisterAdminRoutes(r)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAddUserHandler(t *testing.T) {
	svc := NewService(newMemRepo())
	router := newAdminRouter(svc, uuid.NewString())

	body := `{"name":"Store Owner Account Full Name","email":"owner@example.com",` +
		`"password":"Abcdef1!","address":"3 Owner Lane","role":"StoreOwner"}`

	w := send(router, http.MethodPost, "/add-user", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created successfully", messageOf(t, w))

	w = send(router, http.MethodPost, "/add-user", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", messageOf(t, w))

	w = send(router, http.MethodPost, "/add-user", strings.Replace(body, "StoreOwner", "Owner", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, messageOf(t, w), "role must be one of")

	w = send(router, http.MethodPost, "/add-user", strings.Replace(body, "Abcdef1!", "abcdefgh", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetUsersNeverExposeHash(t *testing.T) {
	svc := NewService(newMemRepo())
	router := newAdminRouter(svc, uuid.NewString())

	info, err := svc.CreateUser(t.Context(), validCreateRequest("list@example.com", "User"))
	require.NoError(t, err)

	w := send(router, http.MethodGet, "/users?role=User", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "argon2id")

	var users []UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "User", users[0].Role)

	w = send(router, http.MethodGet, "/users?role=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(router, http.MethodGet, "/users/"+info.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "argon2id")

	w = send(router, http.MethodGet, "/users/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(router, http.MethodGet, "/users/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserRoleHandler(t *testing.T) {
	svc := NewService(newMemRepo())
	actor := uuid.NewString()
	router := newAdminRouter(svc, actor)

	target, err := svc.CreateUser(t.Context(), validCreateRequest("role@example.com", "User"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"promote", "/users/" + target.ID + "/role", `{"role":"Admin"}`, http.StatusOK, "Role updated successfully"},
		{"unknown role", "/users/" + target.ID + "/role", `{"role":"Root"}`, http.StatusBadRequest, "role must be one of: Admin User StoreOwner"},
		{"missing role", "/users/" + target.ID + "/role", `{}`, http.StatusBadRequest, "role is required"},
		{"unknown user", "/users/" + uuid.NewString() + "/role", `{"role":"User"}`, http.StatusNotFound, "user not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(router, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, w))
		})
	}

	role, err := svc.RoleOf(t.Context(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, role)
}
