// Package author は小説家（romancista）カタログのドメインロジックを提供する。
package author

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
	Name *string
}

// Service は小説家カタログのサービス層。
// 正規化と一意性ポリシーを永続化呼び出しの前後に適用する。
type Service struct {
	authors   repository.AuthorRepository
	collector metrics.Recorder
}

// NewService はServiceを生成する。collectorはnilでもよい。
func NewService(authors repository.AuthorRepository, collector metrics.Recorder) *Service {
	return &Service{
		authors:   authors,
		collector: collector,
	}
}

// Create は小説家を登録する。名前は正規化され、MADR全体で一意。
// 事前チェックは補助的なもので、競合の最終的な裁定者はDBの一意制約。
func (s *Service) Create(ctx context.Context, name string) (*model.Author, error) {
	normalized := slug.Normalize(name)

	existing, err := s.authors.FindByName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing author: %w", err)
	}
	if existing != nil {
		return nil, model.NewAuthorExistsError()
	}

	now := time.Now()
	author := &model.Author{
		ID:        uuid.NewString(),
		Name:      normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.authors.Create(ctx, author); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewAuthorExistsError()
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordEntityCreated("romancista")
	}

	return author, nil
}

// Get は指定IDの小説家を取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	if author == nil {
		return nil, model.NewAuthorNotFoundError()
	}
	return author, nil
}

// List はフィルタ条件に一致する小説家をページ単位で返す。
// 一致する行が無い場合は空スライスを返す（エラーではない）。
func (s *Service) List(ctx context.Context, filter repository.AuthorFilter) ([]*model.Author, error) {
	authors, err := s.authors.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

// Update は指定されたフィールドのみを適用する部分更新を行う。
// どのフィールドが指定されたかに関わらず、保存前に名前を必ず再正規化する。
// コミット時の一意制約違反はConflictになる。
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*model.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	if author == nil {
		return nil, model.NewAuthorNotFoundError()
	}

	if patch.Name != nil {
		author.Name = *patch.Name
	}
	author.Name = slug.Normalize(author.Name)
	author.UpdatedAt = time.Now()

	if err := s.authors.Update(ctx, author); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewAuthorNameExistsError()
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewAuthorNotFoundError()
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return author, nil
}

// Delete は指定IDの小説家を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.authors.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewAuthorNotFoundError()
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return nil
}
