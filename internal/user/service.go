// Package user はユーザーアカウント管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/madr/internal/auth"
	"github.com/hitoshi/madr/internal/metrics"
	"github.com/hitoshi/madr/internal/model"
	"github.com/hitoshi/madr/internal/repository"
	"github.com/hitoshi/madr/internal/slug"
)

// Service はユーザーアカウントのサービス層。
// 登録・自己更新・退会のビジネスロジックを提供する。
type Service struct {
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	collector metrics.Recorder
}

// NewService はServiceを生成する。collectorはnilでもよい。
func NewService(users repository.UserRepository, hasher *auth.PasswordHasher, collector metrics.Recorder) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		collector: collector,
	}
}

// Register は新規アカウントを作成する。
// ユーザー名は正規化して保存し、ユーザー名とメールアドレスの重複を
// 事前チェックする。事前チェックをすり抜けた競合はDBの一意制約が裁定する。
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	normalized := slug.Normalize(username)

	existing, err := s.users.FindByUsernameOrEmail(ctx, normalized, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Username == normalized {
			return nil, model.NewUsernameExistsError()
		}
		return nil, model.NewEmailExistsError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     normalized,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewUserConflictError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordEntityCreated("user")
	}
	slog.Info("user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Update は自分自身のアカウントを全フィールド更新する。
// 認可チェックは対象行の存在確認より先に行う: 呼び出し元の認証済みIDと
// パスのIDが一致しない場合、対象が存在するか否かに関わらずForbiddenを返す。
func (s *Service) Update(ctx context.Context, caller *model.User, targetID, username, email, password string) (*model.User, error) {
	if caller.ID != targetID {
		return nil, model.NewForbiddenError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updated := &model.User{
		ID:           caller.ID,
		Username:     slug.Normalize(username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    caller.CreatedAt,
		UpdatedAt:    time.Now(),
	}

	if err := s.users.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, model.NewUserConflictError()
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// Delete は自分自身のアカウントを削除する。
// Updateと同じく、認可チェックが存在確認より先に行われる。
func (s *Service) Delete(ctx context.Context, caller *model.User, targetID string) error {
	if caller.ID != targetID {
		return model.NewForbiddenError()
	}

	if err := s.users.DeleteByID(ctx, caller.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", slog.String("user_id", caller.ID))
	return nil
}
