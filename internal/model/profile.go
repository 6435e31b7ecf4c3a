package model

import (
	"encoding/json"
	"time"
)

// Profile は上流のアイデンティティサービスが所有しないローカル拡張フィールドを保持する。
// UserSummary.IDと1:1で対応し、初回アクセス時に遅延作成される。
// 状態遷移はabsent -> presentのみで、このシステムから削除されることはない。
type Profile struct {
	UserID      string         `json:"userId"`
	Email       string         `json:"email"`
	Industry    string         `json:"industry"`
	Bio         string         `json:"bio"`
	Experience  int            `json:"experience"`
	Skills      []string       `json:"skills"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProfilePatch はプロフィールの部分更新入力を表す。
// nilフィールドは「指定なし」を意味し、既存の値を上書きしない。
type ProfilePatch struct {
	Industry    *string         `json:"industry"`
	Bio         *string         `json:"bio"`
	Experience  *int            `json:"experience"`
	Skills      *[]string       `json:"skills"`
	Preferences *map[string]any `json:"preferences"`
}

// Assessment はユーザーのクイズ評価結果を表す。
type Assessment struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	UserEmail      string          `json:"userEmail"`
	QuizScore      float64         `json:"quizScore"`
	Questions      json.RawMessage `json:"questions"`
	Category       string          `json:"category"`
	ImprovementTip string          `json:"improvementTip"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AssessmentInput は評価結果の作成入力を表す。
type AssessmentInput struct {
	QuizScore      float64         `json:"quizScore"`
	Questions      json.RawMessage `json:"questions"`
	Category       string          `json:"category"`
	ImprovementTip string          `json:"improvementTip"`
}
