package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/madr/internal/model"
)

// --- モック ---

type mockUserFinder struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserFinder) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

// isUnauthorized はエラーがUnauthorizedのAPIErrorであることを判定する。
func isUnauthorized(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized
}

// --- テスト ---

// 有効なトークンからユーザーが解決されることを検証
func TestIdentityResolver_Resolve(t *testing.T) {
	tokens := NewTokenService(testSecret, 15*time.Minute)
	users := &mockUserFinder{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "test@test.com" {
				t.Errorf("email = %q, want %q", email, "test@test.com")
			}
			return &model.User{ID: "user-1", Email: email, Username: "test"}, nil
		},
	}
	resolver := NewIdentityResolver(tokens, users)

	token, err := tokens.Issue("test@test.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	user, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
}

// 不正なトークンがUnauthorizedに畳み込まれることを検証
func TestIdentityResolver_InvalidToken(t *testing.T) {
	tokens := NewTokenService(testSecret, 15*time.Minute)
	resolver := NewIdentityResolver(tokens, &mockUserFinder{})

	_, err := resolver.Resolve(context.Background(), "token-invalido")
	if !isUnauthorized(err) {
		t.Errorf("error = %v, want Unauthorized APIError", err)
	}
}

// 期限切れトークンがUnauthorizedに畳み込まれることを検証
func TestIdentityResolver_ExpiredToken(t *testing.T) {
	expired := NewTokenService(testSecret, -time.Minute)
	token, err := expired.Issue("test@test.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	resolver := NewIdentityResolver(NewTokenService(testSecret, 15*time.Minute), &mockUserFinder{})

	_, err = resolver.Resolve(context.Background(), token)
	if !isUnauthorized(err) {
		t.Errorf("error = %v, want Unauthorized APIError", err)
	}
}

// subjectクレームの無いトークンがUnauthorizedに畳み込まれることを検証
func TestIdentityResolver_MissingSubject(t *testing.T) {
	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
	})
	token, err := noSubject.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	resolver := NewIdentityResolver(NewTokenService(testSecret, 15*time.Minute), &mockUserFinder{})

	_, err = resolver.Resolve(context.Background(), token)
	if !isUnauthorized(err) {
		t.Errorf("error = %v, want Unauthorized APIError", err)
	}
}

// subjectに一致するユーザーが存在しない場合もUnauthorizedになることを検証
func TestIdentityResolver_UserNotFound(t *testing.T) {
	tokens := NewTokenService(testSecret, 15*time.Minute)
	users := &mockUserFinder{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}
	resolver := NewIdentityResolver(tokens, users)

	token, err := tokens.Issue("none@none.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), token)
	if !isUnauthorized(err) {
		t.Errorf("error = %v, want Unauthorized APIError", err)
	}
}

// リポジトリ障害はUnauthorizedではなく内部エラーとして返ることを検証
func TestIdentityResolver_RepositoryError(t *testing.T) {
	tokens := NewTokenService(testSecret, 15*time.Minute)
	users := &mockUserFinder{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	resolver := NewIdentityResolver(tokens, users)

	token, err := tokens.Issue("test@test.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), token)
	if err == nil {
		t.Fatal("expected error")
	}
	if isUnauthorized(err) {
		t.Error("repository failure should not be reported as Unauthorized")
	}
}
