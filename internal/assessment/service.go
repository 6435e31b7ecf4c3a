// Package assessment はクイズ評価レコードの管理ロジックを提供する。
package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hirely/gateway/internal/model"
	"github.com/hirely/gateway/internal/repository"
)

// ProfileEnsurer は評価の保存前にプロフィールの存在を保証するインターフェース。
// profile.Serviceの部分集合として定義する。
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error)
}

// Sanitizer はフリーテキストのサニタイズに必要なインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service は評価に関するビジネスロジックを提供する。
// 評価はプロフィールに外部キーで紐づくため、全ての操作は
// 先にプロフィールの遅延作成を行う。
type Service struct {
	repo      repository.AssessmentRepository
	profiles  ProfileEnsurer
	sanitizer Sanitizer
}

// NewService はServiceを生成する。
func NewService(repo repository.AssessmentRepository, profiles ProfileEnsurer, sanitizer Sanitizer) *Service {
	return &Service{
		repo:      repo,
		profiles:  profiles,
		sanitizer: sanitizer,
	}
}

// ListAssessments は指定ユーザーの評価を新しい順で返す。
// 評価が存在しない場合は空スライスを返す。
func (s *Service) ListAssessments(ctx context.Context, userID, email string) ([]*model.Assessment, error) {
	if _, err := s.profiles.EnsureProfile(ctx, userID, email); err != nil {
		return nil, err
	}

	assessments, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	return assessments, nil
}

// CreateAssessment は新しい評価レコードを保存して返す。
// questionsが省略された場合は空のJSON配列として格納する。
func (s *Service) CreateAssessment(ctx context.Context, userID, email string, input *model.AssessmentInput) (*model.Assessment, error) {
	if input == nil {
		return nil, model.NewValidationError("Assessment data is required")
	}

	if _, err := s.profiles.EnsureProfile(ctx, userID, email); err != nil {
		return nil, err
	}

	questions := input.Questions
	if len(questions) == 0 {
		questions = json.RawMessage("[]")
	}

	a := &model.Assessment{
		ID:             uuid.New().String(),
		UserID:         userID,
		UserEmail:      email,
		QuizScore:      input.QuizScore,
		Questions:      questions,
		Category:       s.sanitizer.Sanitize(input.Category),
		ImprovementTip: s.sanitizer.Sanitize(input.ImprovementTip),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	slog.Info("assessment created",
		slog.String("assessment_id", a.ID),
		slog.String("user_id", userID),
		slog.Float64("quiz_score", a.QuizScore),
	)
	return a, nil
}
