package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/madr/internal/model"
)

// mockIdentityResolver はテスト用のIdentityResolver実装。
type mockIdentityResolver struct {
	resolveFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockIdentityResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	return m.resolveFn(ctx, token)
}

func TestAuthMiddleware_InjectsUserIntoContext(t *testing.T) {
	wantUser := &model.User{
		ID:       "user-1",
		Username: "maria clara",
		Email:    "maria@test.com",
	}

	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return wantUser, nil
		},
	}

	mw := NewAuthMiddleware(resolver)

	var gotUser *model.User
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUserFromContext(r.Context())
		if err != nil {
			t.Fatalf("CurrentUserFromContext() error = %v", err)
		}
		gotUser = user
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/romancista/abc", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotUser == nil || gotUser.ID != wantUser.ID {
		t.Errorf("user in context = %+v, want %+v", gotUser, wantUser)
	}
}

func TestAuthMiddleware_Returns401WhenHeaderMissing(t *testing.T) {
	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			t.Error("Resolve should not be called without an Authorization header")
			return nil, nil
		},
	}

	mw := NewAuthMiddleware(resolver)

	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/livro", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	if handlerCalled {
		t.Error("handler should not be called")
	}

	var body map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["message"] != "Could not validate credentials" {
		t.Errorf("message = %q, want %q", body["message"], "Could not validate credentials")
	}
}

func TestAuthMiddleware_Returns401ForMalformedHeader(t *testing.T) {
	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			t.Error("Resolve should not be called for a malformed header")
			return nil, nil
		},
	}

	mw := NewAuthMiddleware(resolver)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no scheme", header: "some-token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/livro", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Result().StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthMiddleware_Returns401WhenResolveFails(t *testing.T) {
	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, model.NewUnauthorizedError()
		},
	}

	mw := NewAuthMiddleware(resolver)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPut, "/users/conta/abc", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_Returns500ForUnexpectedResolveError(t *testing.T) {
	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return nil, errors.New("database connection lost")
		},
	}

	mw := NewAuthMiddleware(resolver)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/conta", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

func TestAuthMiddleware_CaseInsensitiveBearerScheme(t *testing.T) {
	resolver := &mockIdentityResolver{
		resolveFn: func(ctx context.Context, token string) (*model.User, error) {
			return &model.User{ID: "user-1"}, nil
		},
	}

	mw := NewAuthMiddleware(resolver)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/conta", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestCurrentUserFromContext_ReturnsErrorWhenAbsent(t *testing.T) {
	if _, err := CurrentUserFromContext(context.Background()); err == nil {
		t.Error("CurrentUserFromContext() error = nil, want error")
	}
}
