package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken は署名不正・ペイロード不正・期限切れのトークンを示す。
// 呼び出し側では失敗理由を区別しない。
var ErrInvalidToken = errors.New("invalid token")

// TokenService は署名付き・時限付きアクセストークンの発行と検証を提供する。
// トークンはステートレスなbearer資格情報であり、失効リストは持たない。
// 有効性は検証時点の署名と有効期限のみで決まる。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
// 秘密鍵とTTLはプロセス起動時に構築した設定から明示的に渡す。
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue はsubject（ユーザーのメールアドレス）を埋め込んだ
// HS256署名付きトークンを発行する。有効期限は現在時刻 + TTL。
func (s *TokenService) Issue(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode はトークンの署名と有効期限を検証し、subjectクレームを返す。
// 署名不正・ペイロード不正・期限切れはすべてErrInvalidTokenになる。
// subjectクレームが無い場合は空文字列を返す（有無の判定は呼び出し側が行う）。
func (s *TokenService) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Refresh は有効なトークンと引き換えに、同一subjectの新しいトークンを発行する。
// 検証はDecodeと同一であり、期限切れトークンに猶予は与えない。
func (s *TokenService) Refresh(tokenString string) (string, error) {
	subject, err := s.Decode(tokenString)
	if err != nil {
		return "", err
	}

	return s.Issue(subject)
}
