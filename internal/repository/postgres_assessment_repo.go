package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hirely/gateway/internal/model"
)

// PostgresAssessmentRepo はPostgreSQLを使用した評価リポジトリ。
type PostgresAssessmentRepo struct {
	db *sql.DB
}

// NewPostgresAssessmentRepo はPostgresAssessmentRepoを生成する。
func NewPostgresAssessmentRepo(db *sql.DB) *PostgresAssessmentRepo {
	return &PostgresAssessmentRepo{db: db}
}

// ListByUserID は指定ユーザーの評価一覧を作成日時の降順で返す。
func (r *PostgresAssessmentRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Assessment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, user_email, quiz_score, questions, category, improvement_tip, created_at
		 FROM assessments
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	assessments := []*model.Assessment{}
	for rows.Next() {
		a := &model.Assessment{}
		var questions []byte
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.UserEmail,
			&a.QuizScore, &questions, &a.Category, &a.ImprovementTip,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		a.Questions = json.RawMessage(questions)
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

// Create は評価レコードを作成する。
func (r *PostgresAssessmentRepo) Create(ctx context.Context, assessment *model.Assessment) error {
	questions := assessment.Questions
	if len(questions) == 0 {
		questions = json.RawMessage("[]")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assessments (id, user_id, user_email, quiz_score, questions, category, improvement_tip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		assessment.ID, assessment.UserID, assessment.UserEmail,
		assessment.QuizScore, []byte(questions), assessment.Category, assessment.ImprovementTip,
		assessment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AssessmentRepository = (*PostgresAssessmentRepo)(nil)
