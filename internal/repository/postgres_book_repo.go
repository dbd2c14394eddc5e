package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/madr/internal/model"
)

// PostgresBookRepo はPostgreSQLを使用した蔵書リポジトリ。
type PostgresBookRepo struct {
	db *sql.DB
}

// NewPostgresBookRepo はPostgresBookRepoを生成する。
func NewPostgresBookRepo(db *sql.DB) *PostgresBookRepo {
	return &PostgresBookRepo{db: db}
}

// FindByID は指定IDの蔵書を取得する。見つからない場合はnilを返す。
func (r *PostgresBookRepo) FindByID(ctx context.Context, id string) (*model.Book, error) {
	return r.findOne(ctx,
		`SELECT id, year, title, author_id, created_at, updated_at
		 FROM books WHERE id = $1`, id)
}

// FindByTitle は正規化済みのタイトルが一致する蔵書を取得する。見つからない場合はnilを返す。
func (r *PostgresBookRepo) FindByTitle(ctx context.Context, title string) (*model.Book, error) {
	return r.findOne(ctx,
		`SELECT id, year, title, author_id, created_at, updated_at
		 FROM books WHERE title = $1`, title)
}

// Create は蔵書を作成する。一意制約違反の場合はErrUniqueViolationを返す。
func (r *PostgresBookRepo) Create(ctx context.Context, book *model.Book) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (id, year, title, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		book.ID, book.Year, book.Title, book.AuthorID, book.CreatedAt, book.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// Update は蔵書を更新する。
// 対象が存在しない場合はErrNotFound、一意制約違反の場合はErrUniqueViolationを返す。
func (r *PostgresBookRepo) Update(ctx context.Context, book *model.Book) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE books SET year = $2, title = $3, author_id = $4, updated_at = $5
		 WHERE id = $1`,
		book.ID, book.Year, book.Title, book.AuthorID, book.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
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

// DeleteByID は指定IDの蔵書を削除する。対象が存在しない場合はErrNotFoundを返す。
func (r *PostgresBookRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
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

// List はフィルタ条件に一致する蔵書をページ単位で返す。
// YearとTitleの両方が指定された場合はANDで結合する。
func (r *PostgresBookRepo) List(ctx context.Context, filter BookFilter) ([]*model.Book, error) {
	query := `SELECT id, year, title, author_id, created_at, updated_at FROM books`
	args := []any{}
	where := ""

	if filter.Year != nil {
		args = append(args, *filter.Year)
		where = fmt.Sprintf(" WHERE year = $%d", len(args))
	}
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		if where == "" {
			where = fmt.Sprintf(" WHERE title LIKE $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND title LIKE $%d", len(args))
		}
	}

	query += where + " ORDER BY title"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*model.Book{}
	for rows.Next() {
		book := &model.Book{}
		if err := rows.Scan(&book.ID, &book.Year, &book.Title, &book.AuthorID,
			&book.CreatedAt, &book.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// findOne は単一行クエリを実行しBookにスキャンする。行が無い場合はnilを返す。
func (r *PostgresBookRepo) findOne(ctx context.Context, query string, args ...any) (*model.Book, error) {
	book := &model.Book{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&book.ID, &book.Year, &book.Title, &book.AuthorID,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return book, nil
}

// compile-time interface check
var _ BookRepository = (*PostgresBookRepo)(nil)
