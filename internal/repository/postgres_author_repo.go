package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/madr/internal/model"
)

// PostgresAuthorRepo はPostgreSQLを使用した小説家リポジトリ。
type PostgresAuthorRepo struct {
	db *sql.DB
}

// NewPostgresAuthorRepo はPostgresAuthorRepoを生成する。
func NewPostgresAuthorRepo(db *sql.DB) *PostgresAuthorRepo {
	return &PostgresAuthorRepo{db: db}
}

// FindByID は指定IDの小説家を取得する。見つからない場合はnilを返す。
func (r *PostgresAuthorRepo) FindByID(ctx context.Context, id string) (*model.Author, error) {
	return r.findOne(ctx,
		`SELECT id, name, created_at, updated_at FROM authors WHERE id = $1`, id)
}

// FindByName は正規化済みの名前が一致する小説家を取得する。見つからない場合はnilを返す。
func (r *PostgresAuthorRepo) FindByName(ctx context.Context, name string) (*model.Author, error) {
	return r.findOne(ctx,
		`SELECT id, name, created_at, updated_at FROM authors WHERE name = $1`, name)
}

// Create は小説家を作成する。一意制約違反の場合はErrUniqueViolationを返す。
func (r *PostgresAuthorRepo) Create(ctx context.Context, author *model.Author) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		author.ID, author.Name, author.CreatedAt, author.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	if err != nil {
		return fmt.Errorf("failed to insert author: %w", err)
	}
	return nil
}

// Update は小説家を更新する。
// 対象が存在しない場合はErrNotFound、一意制約違反の場合はErrUniqueViolationを返す。
func (r *PostgresAuthorRepo) Update(ctx context.Context, author *model.Author) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE authors SET name = $2, updated_at = $3 WHERE id = $1`,
		author.ID, author.Name, author.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID は指定IDの小説家を削除する。対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresAuthorRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List はフィルタ条件に一致する小説家をページ単位で返す。
func (r *PostgresAuthorRepo) List(ctx context.Context, filter AuthorFilter) ([]*model.Author, error) {
	query := `SELECT id, name, created_at, updated_at FROM authors`
	args := []any{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += fmt.Sprintf(" WHERE name LIKE $%d", len(args))
	}

	query += " ORDER BY name"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := []*model.Author{}
	for rows.Next() {
		author := &model.Author{}
		if err := rows.Scan(&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}

	return authors, nil
}

// findOne は単一行クエリを実行しAuthorにスキャンする。行が無い場合はnilを返す。
func (r *PostgresAuthorRepo) findOne(ctx context.Context, query string, args ...any) (*model.Author, error) {
	author := &model.Author{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	return author, nil
}

// compile-time interface check
var _ AuthorRepository = (*PostgresAuthorRepo)(nil)
