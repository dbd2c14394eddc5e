// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/madr/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsernameOrEmail はユーザー名またはメールアドレスが一致する
	// ユーザーを検索する。登録時の事前重複チェックに使用する。
	// 見つからない場合はnilを返す。
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)

	// Create はユーザーを作成する。一意制約違反の場合はErrUniqueViolationを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーの全フィールドを更新する。
	// 対象が存在しない場合はErrNotFound、一意制約違反の場合はErrUniqueViolationを返す。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。対象が存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// AuthorFilter は小説家一覧のフィルタ条件。
type AuthorFilter struct {
	Name   string // 名前の部分一致（空文字列はフィルタなし）
	Offset int
	Limit  int
}

// AuthorRepository は小説家データの永続化インターフェース。
type AuthorRepository interface {
	// FindByID は指定IDの小説家を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Author, error)

	// FindByName は正規化済みの名前が一致する小説家を取得する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Author, error)

	// Create は小説家を作成する。一意制約違反の場合はErrUniqueViolationを返す。
	Create(ctx context.Context, author *model.Author) error

	// Update は小説家を更新する。
	// 対象が存在しない場合はErrNotFound、一意制約違反の場合はErrUniqueViolationを返す。
	Update(ctx context.Context, author *model.Author) error

	// DeleteByID は指定IDの小説家を削除する。対象が存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error

	// List はフィルタ条件に一致する小説家をページ単位で返す。
	List(ctx context.Context, filter AuthorFilter) ([]*model.Author, error)
}

// BookFilter は蔵書一覧のフィルタ条件。
// YearとTitleの両方が指定された場合はANDで結合される。
type BookFilter struct {
	Year   *int   // 出版年の完全一致（nilはフィルタなし）
	Title  string // タイトルの部分一致（空文字列はフィルタなし）
	Offset int
	Limit  int
}

// BookRepository は蔵書データの永続化インターフェース。
type BookRepository interface {
	// FindByID は指定IDの蔵書を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Book, error)

	// FindByTitle は正規化済みのタイトルが一致する蔵書を取得する。見つからない場合はnilを返す。
	FindByTitle(ctx context.Context, title string) (*model.Book, error)

	// Create は蔵書を作成する。一意制約違反の場合はErrUniqueViolationを返す。
	Create(ctx context.Context, book *model.Book) error

	// Update は蔵書を更新する。
	// 対象が存在しない場合はErrNotFound、一意制約違反の場合はErrUniqueViolationを返す。
	Update(ctx context.Context, book *model.Book) error

	// DeleteByID は指定IDの蔵書を削除する。対象が存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error

	// List はフィルタ条件に一致する蔵書をページ単位で返す。
	List(ctx context.Context, filter BookFilter) ([]*model.Book, error)
}
