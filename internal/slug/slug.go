// Package slug はテキストフィールドの正規化を提供する。
// ユーザー名・小説家名・蔵書タイトルは一意性比較と保存の前に
// すべてこの正規形に変換される。
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents はNFD分解後に結合文字（ダイアクリティカルマーク）を除去する。
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize はテキストを正規形に変換する。
// 小文字化し、ダイアクリティカルマークを除去し、英数字以外の連続を
// 単一のスペースに置き換え、前後の空白を取り除く。
// 冪等: Normalize(Normalize(x)) == Normalize(x) が常に成り立つ。
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		// 変換に失敗した場合は小文字化のみで続行する
		stripped = lowered
	}

	// 英数字以外（記号・空白の連続）を区切りとして分割し、単一スペースで結合
	fields := strings.FieldsFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(fields, " ")
}
