package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/madr/internal/middleware"
	"github.com/hitoshi/madr/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規アカウントを作成する。
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Update はcallerが自分自身のアカウント情報を全量更新する。
	Update(ctx context.Context, caller *model.User, targetID, username, email, password string) (*model.User, error)
	// Delete はcallerが自分自身のアカウントを削除する。
	Delete(ctx context.Context, caller *model.User, targetID string) error
}

// UserHandler はアカウント管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// userRequest はアカウント作成・更新リクエストのボディ。
type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はアカウント情報のAPIレスポンス。パスワードは含めない。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// messageResponse はメッセージのみのAPIレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// Register はアカウント作成を処理する。
// POST /users/conta
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeUserRequest(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toUserResponse(user))
}

// Update はアカウント情報の全量更新を処理する。
// PUT /users/conta/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CurrentUserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	req, apiErr := decodeUserRequest(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	targetID := chi.URLParam(r, "id")

	user, err := h.service.Update(r.Context(), caller, targetID, req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// Delete はアカウント削除を処理する。
// DELETE /users/conta/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CurrentUserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	targetID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), caller, targetID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "Conta deletada com sucesso",
	})
}

// decodeUserRequest はアカウント作成・更新リクエストを解析し必須フィールドを検証する。
func decodeUserRequest(r *http.Request) (*userRequest, *model.APIError) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, newInvalidRequestError("Request body must be valid JSON")
	}

	var missing []string
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, fieldErrors(missing)
	}

	return &req, nil
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
