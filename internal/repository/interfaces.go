// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hirely/gateway/internal/model"
)

// ProfileRepository はプロフィール拡張レコードの永続化インターフェース。
// レコードは上流アイデンティティのuser_idで1:1にキーづけされる。
type ProfileRepository interface {
	// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// EnsureExists はプロフィールが存在しなければ既定値で作成する。
	// user_idのユニーク制約とON CONFLICT DO NOTHINGにより、同一IDへの
	// 同時呼び出しでも重複レコードは発生しない。既存レコードは変更しない。
	EnsureExists(ctx context.Context, userID, email string) error

	// Update はプロフィール行全体を上書き更新する。
	// 対象が存在しない場合はエラーを返す。
	Update(ctx context.Context, profile *model.Profile) error

	// Upsert はプロフィールを作成または全フィールド置換する。
	// create-or-updateの解決はON CONFLICTによりストレージ層で原子的に行う。
	Upsert(ctx context.Context, profile *model.Profile) error
}

// AssessmentRepository はクイズ評価レコードの永続化インターフェース。
type AssessmentRepository interface {
	// ListByUserID は指定ユーザーの評価一覧を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Assessment, error)

	// Create は評価レコードを作成する。
	Create(ctx context.Context, assessment *model.Assessment) error
}
