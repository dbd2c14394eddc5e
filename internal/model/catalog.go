// Package model はドメインモデルを定義する。
package model

import "time"

// Author は小説家（romancista）を表す。
// Nameはslug正規化済みの形で保存され、MADR全体で一意。
type Author struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Book は蔵書（livro）を表す。
// Titleはslug正規化済みの形で保存され、MADR全体で一意。
// AuthorIDは論理的な参照であり、DB上の外部キー制約は張らない。
type Book struct {
	ID        string
	Year      int
	Title     string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
