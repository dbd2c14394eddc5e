package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/madr/internal/book"
	"github.com/hitoshi/madr/internal/model"
	"github.com/hitoshi/madr/internal/repository"
)

// BookServiceInterface は蔵書ハンドラーが必要とするサービスインターフェース。
type BookServiceInterface interface {
	// Create は新規蔵書を登録する。タイトルは正規化して保存する。
	Create(ctx context.Context, year int, title, authorID string) (*model.Book, error)
	// Get はIDで蔵書を取得する。
	Get(ctx context.Context, id string) (*model.Book, error)
	// List はフィルター条件に一致する蔵書を取得する。
	List(ctx context.Context, filter repository.BookFilter) ([]*model.Book, error)
	// Update は蔵書を部分更新する。
	Update(ctx context.Context, id string, patch book.Patch) (*model.Book, error)
	// Delete は蔵書を削除する。
	Delete(ctx context.Context, id string) error
}

// BookHandler は蔵書管理のHTTPハンドラー。
type BookHandler struct {
	service BookServiceInterface
}

// NewBookHandler はBookHandlerを生成する。
func NewBookHandler(service BookServiceInterface) *BookHandler {
	return &BookHandler{
		service: service,
	}
}

// createBookRequest は蔵書登録リクエストのボディ。
type createBookRequest struct {
	Year     *int   `json:"ano"`
	Title    string `json:"titulo"`
	AuthorID string `json:"romancista_id"`
}

// patchBookRequest は蔵書部分更新リクエストのボディ。
type patchBookRequest struct {
	Year  *int    `json:"ano"`
	Title *string `json:"titulo"`
}

// bookResponse は蔵書情報のAPIレスポンス。
type bookResponse struct {
	ID       string `json:"id"`
	Year     int    `json:"ano"`
	Title    string `json:"titulo"`
	AuthorID string `json:"romancista_id"`
}

// bookListResponse は蔵書一覧のAPIレスポンス。
type bookListResponse struct {
	Books []bookResponse `json:"livros"`
}

// Create は蔵書登録を処理する。
// POST /livro
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			newInvalidRequestError("Request body must be valid JSON"))
		return
	}

	var missing []string
	if req.Year == nil {
		missing = append(missing, "ano")
	}
	if req.Title == "" {
		missing = append(missing, "titulo")
	}
	if req.AuthorID == "" {
		missing = append(missing, "romancista_id")
	}
	if len(missing) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, fieldErrors(missing))
		return
	}

	created, err := h.service.Create(r.Context(), *req.Year, req.Title, req.AuthorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toBookResponse(created))
}

// Get は蔵書詳細を取得する。
// GET /livro/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toBookResponse(found))
}

// List は蔵書一覧を取得する。
// GET /livro?ano=&titulo=&offset=&limit=
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.BookFilter{
		Title:  query.Get("titulo"),
		Offset: parseQueryInt(query.Get("offset"), 0),
		Limit:  parseQueryInt(query.Get("limit"), defaultListLimit),
	}

	if rawYear := query.Get("ano"); rawYear != "" {
		year := parseQueryInt(rawYear, -1)
		if year >= 0 {
			filter.Year = &year
		}
	}

	books, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := bookListResponse{Books: make([]bookResponse, 0, len(books))}
	for _, b := range books {
		resp.Books = append(resp.Books, toBookResponse(b))
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// Update は蔵書の部分更新を処理する。
// PATCH /livro/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req patchBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			newInvalidRequestError("Request body must be valid JSON"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, book.Patch{
		Year:  req.Year,
		Title: req.Title,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toBookResponse(updated))
}

// Delete は蔵書の削除を処理する。
// DELETE /livro/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "Livro deletado no MADR",
	})
}

// toBookResponse はmodel.BookからAPIレスポンスに変換する。
func toBookResponse(b *model.Book) bookResponse {
	return bookResponse{
		ID:       b.ID,
		Year:     b.Year,
		Title:    b.Title,
		AuthorID: b.AuthorID,
	}
}
