// Package model はドメインモデルを定義する。
package model

import "time"

// User はMADRの利用者アカウントを表す。
// Usernameはslug正規化済みの形で保存される。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
