// Package profile はプロフィール拡張レコードの調整ロジックを提供する。
//
// プロフィールは上流で認証されたアイデンティティごとに1件、初回アクセス時に
// 遅延作成される。このパッケージから削除されることはない。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirely/gateway/internal/model"
	"github.com/hirely/gateway/internal/repository"
)

// Sanitizer はフリーテキストのサニタイズに必要なインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service はプロフィールに関するビジネスロジックを提供する。
type Service struct {
	repo      repository.ProfileRepository
	sanitizer Sanitizer
}

// NewService はServiceを生成する。
func NewService(repo repository.ProfileRepository, sanitizer Sanitizer) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// EnsureProfile は指定アイデンティティのプロフィールを取得する。
// 存在しない場合は既定値で作成してから返す（遅延作成）。既存レコードは変更しない。
// 同一IDへの同時呼び出しはストレージ層のユニーク制約で1件に解決される。
func (s *Service) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	if userID == "" {
		return nil, model.NewValidationError("User ID is required")
	}

	if err := s.repo.EnsureExists(ctx, userID, email); err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		// EnsureExists直後に消えることはない（削除遷移が存在しないため）
		return nil, fmt.Errorf("profile missing after ensure: %s", userID)
	}

	return p, nil
}

// UpdateProfile はパッチに明示されたフィールドのみを更新する。
// パッチに含まれないフィールドは既定値で上書きされない。
// プロフィールが存在しない場合はNOT_FOUNDを返す。
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch *model.ProfilePatch) (*model.Profile, error) {
	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotFoundError("Profile")
	}

	s.applyPatch(existing, patch)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("profile updated", slog.String("user_id", userID))
	return existing, nil
}

// UpsertProfile はプロフィールを作成または置換する。
// スカラーフィールドはパッチに明示された場合のみ置換する。
// リスト/マップフィールド（skills、preferences）はパッチで省略された場合、
// 欠損ではなく空コレクションとして扱う。
func (s *Service) UpsertProfile(ctx context.Context, userID, email string, patch *model.ProfilePatch) (*model.Profile, error) {
	if userID == "" {
		return nil, model.NewValidationError("User ID is required")
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	now := time.Now().UTC()
	p := &model.Profile{
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		// スカラーはパッチがない限り既存値を維持する
		p.Industry = existing.Industry
		p.Bio = existing.Bio
		p.Experience = existing.Experience
		p.CreatedAt = existing.CreatedAt
	}
	s.applyPatch(p, patch)

	// リスト/マップはパッチで省略された場合に空コレクションへ置換する
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Preferences == nil {
		p.Preferences = map[string]any{}
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	slog.Info("profile upserted",
		slog.String("user_id", userID),
		slog.Bool("created", existing == nil),
	)
	return p, nil
}

// applyPatch はnilでないパッチフィールドをプロフィールへ反映する。
// フリーテキストは保存前にサニタイズする。
func (s *Service) applyPatch(p *model.Profile, patch *model.ProfilePatch) {
	if patch == nil {
		return
	}
	if patch.Industry != nil {
		p.Industry = s.sanitizer.Sanitize(*patch.Industry)
	}
	if patch.Bio != nil {
		p.Bio = s.sanitizer.Sanitize(*patch.Bio)
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.Skills != nil {
		skills := make([]string, 0, len(*patch.Skills))
		for _, skill := range *patch.Skills {
			skills = append(skills, s.sanitizer.Sanitize(skill))
		}
		p.Skills = skills
	}
	if patch.Preferences != nil {
		p.Preferences = *patch.Preferences
	}
}
