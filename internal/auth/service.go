package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/madr/internal/metrics"
	"github.com/hitoshi/madr/internal/model"
)

// Service はログインとトークン再発行のビジネスロジックを提供する。
type Service struct {
	users     UserFinder
	hasher    *PasswordHasher
	tokens    *TokenService
	collector metrics.Recorder
}

// NewService はServiceを生成する。collectorはnilでもよい。
func NewService(users UserFinder, hasher *PasswordHasher, tokens *TokenService, collector metrics.Recorder) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		collector: collector,
	}
}

// Login はメールアドレスとパスワードを検証し、アクセストークンを発行する。
// メール不存在とパスワード不一致はどちらが誤りかを区別せず、
// 同一のIncorrectCredentialsエラーに畳み込む。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user for login: %w", err)
	}

	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		if s.collector != nil {
			s.collector.RecordLoginFailure()
		}
		return "", model.NewIncorrectCredentialsError()
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordLoginSuccess()
	}
	slog.Info("login succeeded", slog.String("user_id", user.ID))

	return token, nil
}

// Refresh は有効なトークンと引き換えに新しいトークンを発行する。
// 期限切れ・不正なトークンはUnauthorizedになる。
func (s *Service) Refresh(ctx context.Context, tokenString string) (string, error) {
	refreshed, err := s.tokens.Refresh(tokenString)
	if err != nil {
		return "", model.NewUnauthorizedError()
	}
	return refreshed, nil
}
