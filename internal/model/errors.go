// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（APIレスポンスのdetailに相当）
	Category string // カテゴリ: auth, account, catalog, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeIncorrectCredentials = "INCORRECT_CREDENTIALS"
	ErrCodeUserConflict         = "USER_CONFLICT"
	ErrCodeAuthorNotFound       = "ROMANCISTA_NOT_FOUND"
	ErrCodeAuthorConflict       = "ROMANCISTA_CONFLICT"
	ErrCodeBookNotFound         = "LIVRO_NOT_FOUND"
	ErrCodeBookConflict         = "LIVRO_CONFLICT"
)

// NewUnauthorizedError は認証失敗エラーを生成する。
// 失敗理由（署名不正・期限切れ・subject欠落・ユーザー不存在）は
// オラクル攻撃を避けるため一切区別しない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Could not validate credentials",
		Category: "auth",
		Action:   "Faca login novamente.",
	}
}

// NewForbiddenError は認可失敗エラーを生成する。
// 認証済みだが対象リソースを変更する権限がない場合に返す。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Not enough permission",
		Category: "auth",
		Action:   "Apenas a propria conta pode ser alterada.",
	}
}

// NewIncorrectCredentialsError はログイン失敗エラーを生成する。
// メール不存在とパスワード不一致は同一メッセージに畳み込む。
func NewIncorrectCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeIncorrectCredentials,
		Message:  "Incorrect email or password",
		Category: "auth",
		Action:   "Verifique o email e a senha informados.",
	}
}

// NewUsernameExistsError はユーザー名の重複エラーを生成する。
func NewUsernameExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeUserConflict,
		Message:  "Username already exists",
		Category: "account",
		Action:   "Escolha outro nome de usuario.",
	}
}

// NewEmailExistsError はメールアドレスの重複エラーを生成する。
func NewEmailExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeUserConflict,
		Message:  "Email already exists",
		Category: "account",
		Action:   "Utilize outro endereco de email.",
	}
}

// NewUserConflictError はコミット時に検出されたアカウント重複エラーを生成する。
// 事前チェックをすり抜けた競合（同一キーへの同時更新）で返る。
func NewUserConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeUserConflict,
		Message:  "Username or email already exists",
		Category: "account",
		Action:   "Escolha outro nome de usuario ou email.",
	}
}

// NewAuthorNotFoundError は小説家未登録エラーを生成する。
func NewAuthorNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthorNotFound,
		Message:  "Romancista nao consta no MADR",
		Category: "catalog",
		Action:   "Verifique o identificador informado.",
	}
}

// NewAuthorExistsError は小説家の登録時重複エラーを生成する。
func NewAuthorExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthorConflict,
		Message:  "Romancista ja consta no MADR",
		Category: "catalog",
		Action:   "O romancista ja esta cadastrado.",
	}
}

// NewAuthorNameExistsError は小説家名の更新時重複エラーを生成する。
func NewAuthorNameExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthorConflict,
		Message:  "Este nome ja consta no MADR",
		Category: "catalog",
		Action:   "Escolha outro nome.",
	}
}

// NewBookNotFoundError は蔵書未登録エラーを生成する。
func NewBookNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeBookNotFound,
		Message:  "Livro nao consta no MADR",
		Category: "catalog",
		Action:   "Verifique o identificador informado.",
	}
}

// NewBookExistsError は蔵書の登録時重複エラーを生成する。
func NewBookExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeBookConflict,
		Message:  "Livro ja consta no MADR",
		Category: "catalog",
		Action:   "O livro ja esta cadastrado.",
	}
}

// NewBookTitleExistsError は蔵書タイトルの更新時重複エラーを生成する。
func NewBookTitleExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeBookConflict,
		Message:  "Este titulo ja consta no MADR",
		Category: "catalog",
		Action:   "Escolha outro titulo.",
	}
}
