// Package handler はMADRのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hitoshi/madr/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はemail/passwordを検証しアクセストークンを発行する。
	Login(ctx context.Context, email, password string) (string, error)
	// Refresh は有効なトークンを引き換えに新しいトークンを発行する。
	Refresh(ctx context.Context, tokenString string) (string, error)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse はアクセストークンのAPIレスポンス。
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login はログインを処理する。
// POST /auth/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			newInvalidRequestError("Request body must be valid JSON"))
		return
	}

	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, fieldErrors(missing))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// Refresh はトークンのリフレッシュを処理する。
// POST /auth/refresh_token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerTokenFromHeader(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	newToken, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, tokenResponse{
		AccessToken: newToken,
		TokenType:   "Bearer",
	})
}

// bearerTokenFromHeader はAuthorizationヘッダーからbearerトークンを抽出する。
func bearerTokenFromHeader(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}
