package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/madr/internal/auth"
	"github.com/hitoshi/madr/internal/model"
	"github.com/hitoshi/madr/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn              func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn           func(ctx context.Context, email string) (*model.User, error)
	findByUsernameOrEmailFn func(ctx context.Context, username, email string) (*model.User, error)
	createFn                func(ctx context.Context, user *model.User) error
	updateFn                func(ctx context.Context, user *model.User) error
	deleteByIDFn            func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	if m.findByUsernameOrEmailFn != nil {
		return m.findByUsernameOrEmailFn(ctx, username, email)
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func apiErrorCode(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

// --- テスト ---

// Registerがユーザー名を正規化し、パスワードをハッシュ化して保存することを検証
func TestService_Register(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(repo, testHasher(), nil)

	user, err := svc.Register(context.Background(), "tEst UsErnAmE@!", "test@test.com", "password")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Username != "test username" {
		t.Errorf("Username = %q, want %q", user.Username, "test username")
	}
	if user.Email != "test@test.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@test.com")
	}
	if created == nil {
		t.Fatal("Create should be called")
	}
	if created.PasswordHash == "password" || created.PasswordHash == "" {
		t.Error("password should be stored as a hash, not plaintext")
	}
	if !testHasher().Verify("password", created.PasswordHash) {
		t.Error("stored hash should verify against the original password")
	}
}

// ユーザー名重複とメール重複がそれぞれのConflictメッセージになることを検証
func TestService_Register_Conflicts(t *testing.T) {
	t.Run("ユーザー名の重複", func(t *testing.T) {
		repo := &mockUserRepo{
			findByUsernameOrEmailFn: func(ctx context.Context, username, email string) (*model.User, error) {
				return &model.User{ID: "user-1", Username: username, Email: "other@test.com"}, nil
			},
		}
		svc := NewService(repo, testHasher(), nil)

		_, err := svc.Register(context.Background(), "test", "test@test.com", "password")
		if apiErrorCode(err) != model.ErrCodeUserConflict {
			t.Errorf("error = %v, want USER_CONFLICT", err)
		}
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "Username already exists" {
			t.Errorf("message = %q, want %q", apiErr.Message, "Username already exists")
		}
	})

	t.Run("メールアドレスの重複", func(t *testing.T) {
		repo := &mockUserRepo{
			findByUsernameOrEmailFn: func(ctx context.Context, username, email string) (*model.User, error) {
				return &model.User{ID: "user-1", Username: "outro", Email: email}, nil
			},
		}
		svc := NewService(repo, testHasher(), nil)

		_, err := svc.Register(context.Background(), "test", "test@test.com", "password")
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Email already exists" {
			t.Errorf("error = %v, want Email already exists", err)
		}
	})

	t.Run("コミット時の競合", func(t *testing.T) {
		repo := &mockUserRepo{
			createFn: func(ctx context.Context, user *model.User) error {
				return repository.ErrUniqueViolation
			},
		}
		svc := NewService(repo, testHasher(), nil)

		_, err := svc.Register(context.Background(), "test", "test@test.com", "password")
		if apiErrorCode(err) != model.ErrCodeUserConflict {
			t.Errorf("error = %v, want USER_CONFLICT", err)
		}
	})
}

// 他人のIDを指定した更新が、対象の存在に関わらずForbiddenになることを検証
func TestService_Update_Forbidden(t *testing.T) {
	updateCalled := false
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, user *model.User) error {
			updateCalled = true
			return nil
		},
	}
	svc := NewService(repo, testHasher(), nil)
	caller := &model.User{ID: "user-1", Username: "test", Email: "test@test.com"}

	// 存在しないIDでもForbiddenが先に返る
	_, err := svc.Update(context.Background(), caller, "no-such-id", "test2", "test2@test.com", "123")
	if apiErrorCode(err) != model.ErrCodeForbidden {
		t.Errorf("error = %v, want FORBIDDEN", err)
	}
	if updateCalled {
		t.Error("Update should not reach the repository when forbidden")
	}
}

// 自分自身の更新がユーザー名を再正規化し、パスワードを再ハッシュすることを検証
func TestService_Update_Self(t *testing.T) {
	var updated *model.User
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}
	svc := NewService(repo, testHasher(), nil)
	caller := &model.User{ID: "user-1", Username: "test", Email: "test@test.com"}

	user, err := svc.Update(context.Background(), caller, "user-1", "tEst2#!", "test2@test.com", "nova-senha")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if user.Username != "test2" {
		t.Errorf("Username = %q, want %q", user.Username, "test2")
	}
	if updated == nil {
		t.Fatal("Update should reach the repository")
	}
	if !testHasher().Verify("nova-senha", updated.PasswordHash) {
		t.Error("new password should be hashed and verifiable")
	}
}

// 更新時のコミット競合がConflictになることを検証
func TestService_Update_Conflict(t *testing.T) {
	repo := &mockUserRepo{
		updateFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrUniqueViolation
		},
	}
	svc := NewService(repo, testHasher(), nil)
	caller := &model.User{ID: "user-1", Username: "test", Email: "test@test.com"}

	_, err := svc.Update(context.Background(), caller, "user-1", "test2", "test2@test.com", "123")
	if apiErrorCode(err) != model.ErrCodeUserConflict {
		t.Errorf("error = %v, want USER_CONFLICT", err)
	}
}

// 他人のIDを指定した削除がForbiddenになることを検証
func TestService_Delete_Forbidden(t *testing.T) {
	deleteCalled := false
	repo := &mockUserRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewService(repo, testHasher(), nil)
	caller := &model.User{ID: "user-1"}

	err := svc.Delete(context.Background(), caller, "user-2")
	if apiErrorCode(err) != model.ErrCodeForbidden {
		t.Errorf("error = %v, want FORBIDDEN", err)
	}
	if deleteCalled {
		t.Error("Delete should not reach the repository when forbidden")
	}
}

// 自分自身の削除が成功することを検証
func TestService_Delete_Self(t *testing.T) {
	deletedID := ""
	repo := &mockUserRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(repo, testHasher(), nil)
	caller := &model.User{ID: "user-1"}

	if err := svc.Delete(context.Background(), caller, "user-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deletedID != "user-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "user-1")
	}
}
