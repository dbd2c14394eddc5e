package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/madr/internal/author"
	"github.com/hitoshi/madr/internal/model"
	"github.com/hitoshi/madr/internal/repository"
)

// defaultListLimit はリスト取得のデフォルト件数。
const defaultListLimit = 20

// AuthorServiceInterface は小説家ハンドラーが必要とするサービスインターフェース。
type AuthorServiceInterface interface {
	// Create は新規小説家を登録する。名前は正規化して保存する。
	Create(ctx context.Context, name string) (*model.Author, error)
	// Get はIDで小説家を取得する。
	Get(ctx context.Context, id string) (*model.Author, error)
	// List はフィルター条件に一致する小説家を取得する。
	List(ctx context.Context, filter repository.AuthorFilter) ([]*model.Author, error)
	// Update は小説家を部分更新する。
	Update(ctx context.Context, id string, patch author.Patch) (*model.Author, error)
	// Delete は小説家を削除する。
	Delete(ctx context.Context, id string) error
}

// AuthorHandler は小説家管理のHTTPハンドラー。
type AuthorHandler struct {
	service AuthorServiceInterface
}

// NewAuthorHandler はAuthorHandlerを生成する。
func NewAuthorHandler(service AuthorServiceInterface) *AuthorHandler {
	return &AuthorHandler{
		service: service,
	}
}

// createAuthorRequest は小説家登録リクエストのボディ。
type createAuthorRequest struct {
	Name string `json:"nome"`
}

// patchAuthorRequest は小説家部分更新リクエストのボディ。
type patchAuthorRequest struct {
	Name *string `json:"nome"`
}

// authorResponse は小説家情報のAPIレスポンス。
type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// authorListResponse は小説家一覧のAPIレスポンス。
type authorListResponse struct {
	Authors []authorResponse `json:"romancistas"`
}

// Create は小説家登録を処理する。
// POST /romancista
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			newInvalidRequestError("Request body must be valid JSON"))
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, fieldErrors([]string{"nome"}))
		return
	}

	created, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toAuthorResponse(created))
}

// Get は小説家詳細を取得する。
// GET /romancista/{id}
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toAuthorResponse(found))
}

// List は小説家一覧を取得する。
// GET /romancista?nome=&offset=&limit=
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.AuthorFilter{
		Name:   query.Get("nome"),
		Offset: parseQueryInt(query.Get("offset"), 0),
		Limit:  parseQueryInt(query.Get("limit"), defaultListLimit),
	}

	authors, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := authorListResponse{Authors: make([]authorResponse, 0, len(authors))}
	for _, a := range authors {
		resp.Authors = append(resp.Authors, toAuthorResponse(a))
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// Update は小説家の部分更新を処理する。
// PATCH /romancista/{id}
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req patchAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			newInvalidRequestError("Request body must be valid JSON"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, author.Patch{Name: req.Name})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toAuthorResponse(updated))
}

// Delete は小説家の削除を処理する。
// DELETE /romancista/{id}
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "Romancista deletado(a) do MADR",
	})
}

// toAuthorResponse はmodel.AuthorからAPIレスポンスに変換する。
func toAuthorResponse(a *model.Author) authorResponse {
	return authorResponse{
		ID:   a.ID,
		Name: a.Name,
	}
}

// parseQueryInt はクエリパラメータを非負整数として解析する。
// 空文字列や不正な値の場合はフォールバック値を返す。
func parseQueryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
