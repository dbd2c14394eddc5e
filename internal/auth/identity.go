package auth

import (
	"context"
	"fmt"

	"github.com/hitoshi/madr/internal/model"
)

// UserFinder は現在ユーザーの解決に必要な最小のリポジトリインターフェース。
type UserFinder interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// IdentityResolver はbearerトークンから認証済みユーザーを解決する。
// 認可ゲートとして使用され、失敗はすべて単一のUnauthorizedに畳み込まれる。
type IdentityResolver struct {
	tokens *TokenService
	users  UserFinder
}

// NewIdentityResolver はIdentityResolverを生成する。
func NewIdentityResolver(tokens *TokenService, users UserFinder) *IdentityResolver {
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve はトークンを検証し、subjectのメールアドレスに一致するユーザーを返す。
// トークン不正・subject欠落・ユーザー不存在はすべて同一のUnauthorizedエラーになる。
// リポジトリ障害のみ内部エラーとしてそのまま返す。
func (r *IdentityResolver) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	subject, err := r.tokens.Decode(tokenString)
	if err != nil {
		return nil, model.NewUnauthorizedError()
	}
	if subject == "" {
		return nil, model.NewUnauthorizedError()
	}

	user, err := r.users.FindByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}
