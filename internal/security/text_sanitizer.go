// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はプロフィールや評価のフリーテキストフィールドを
// 保存前にサニタイズし、格納型XSSのリスクからユーザーを保護する。
// bluemondayのStrictPolicyを使用し、HTMLタグを一切許可しない。
// プロフィールの経歴・スキル等はプレーンテキストとして扱うためである。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はフリーテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizerService interface {
	// Sanitize はテキストからHTMLタグを全て除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（許可タグなし）を使用する。scriptとstyleの内容は
// タグごと除去される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグを全て除去して返す。
// bluemondayはテキストをHTMLエスケープして返すため、プレーンテキストとして
// 格納できるようエスケープを戻す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}
