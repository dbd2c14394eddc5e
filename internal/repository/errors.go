package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound は対象行が存在しないことを示す。
var ErrNotFound = errors.New("record not found")

// ErrUniqueViolation はコミット時に一意制約違反が検出されたことを示す。
// 事前チェックをすり抜けた競合の最終的な裁定者はDBの制約であり、
// サービス層はこのエラーをConflictに変換する。
var ErrUniqueViolation = errors.New("unique constraint violation")

// uniqueViolationCode はPostgreSQLのunique_violationエラーコード。
const uniqueViolationCode = "23505"

// isUniqueViolation はエラーがPostgreSQLの一意制約違反かを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}
