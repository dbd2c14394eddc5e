// Package book は蔵書（livro）カタログのドメインロジックを提供する。
package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/madr/internal/metrics"
	"github.com/hitoshi/madr/internal/model"
	"github.com/hitoshi/madr/internal/repository"
	"github.com/hitoshi/madr/internal/slug"
)

// Patch は部分更新で指定されたフィールドのみを保持する。
// nilのフィールドは更新対象外。
type Patch struct {
	Year  *int
	Title *string
}

// Service は蔵書カタログのサービス層。
// 正規化と一意性ポリシーを永続化呼び出しの前後に適用する。
type Service struct {
	books     repository.BookRepository
	collector metrics.Recorder
}

// NewService はServiceを生成する。collectorはnilでもよい。
func NewService(books repository.BookRepository, collector metrics.Recorder) *Service {
	return &Service{
		books:     books,
		collector: collector,
	}
}

// Create は蔵書を登録する。タイトルは正規化され、MADR全体で一意。
// 小説家への参照は論理的なものであり、ここでは存在確認を行わない。
func (s *Service) Create(ctx context.Context, year int, title, authorID string) (*model.Book, error) {
	normalized := slug.Normalize(title)

	existing, err := s.books.FindByTitle(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing book: %w", err)
	}
	if existing != nil {
		return nil, model.NewBookExistsError()
	}

	now := time.Now()
	book := &model.Book{
		ID:        uuid.NewString(),
		Year:      year,
		Title:     normalized,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewBookExistsError()
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordEntityCreated("livro")
	}

	return book, nil
}

// Get は指定IDの蔵書を取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	if book == nil {
		return nil, model.NewBookNotFoundError()
	}
	return book, nil
}

// List はフィルタ条件に一致する蔵書をページ単位で返す。
// 出版年とタイトルの両方が指定された場合はANDで結合される。
// 一致する行が無い場合は空スライスを返す（エラーではない）。
func (s *Service) List(ctx context.Context, filter repository.BookFilter) ([]*model.Book, error) {
	books, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Update は指定されたフィールドのみを適用する部分更新を行う。
// どのフィールドが指定されたかに関わらず、保存前にタイトルを必ず再正規化する。
// コミット時の一意制約違反はConflictになる。
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	if book == nil {
		return nil, model.NewBookNotFoundError()
	}

	if patch.Year != nil {
		book.Year = *patch.Year
	}
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	book.Title = slug.Normalize(book.Title)
	book.UpdatedAt = time.Now()

	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewBookTitleExistsError()
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

// Delete は指定IDの蔵書を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.books.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewBookNotFoundError()
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
