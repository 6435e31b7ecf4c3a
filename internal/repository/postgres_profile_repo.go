package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hirely/gateway/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByUserID は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	var prefs []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, industry, bio, experience, skills, preferences, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(
		&profile.UserID, &profile.Email,
		&profile.Industry, &profile.Bio, &profile.Experience,
		pq.Array(&profile.Skills), &prefs,
		&profile.CreatedAt, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	profile.Preferences = map[string]any{}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &profile.Preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
	}

	return profile, nil
}

// EnsureExists はプロフィールが存在しなければ既定値で作成する。
// user_idのユニーク制約を利用したINSERT ON CONFLICT DO NOTHINGで、
// 同一IDへの同時作成をストレージ層で解決する。
func (r *PostgresProfileRepo) EnsureExists(ctx context.Context, userID, email string) error {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, industry, bio, experience, skills, preferences, created_at, updated_at)
		 VALUES ($1, $2, '', '', 0, $3, $4, $5, $5)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, email, pq.Array([]string{}), []byte("{}"), now,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// Update はプロフィール行全体を上書き更新する。対象が存在しない場合はエラーを返す。
func (r *PostgresProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET email = $2, industry = $3, bio = $4, experience = $5,
		     skills = $6, preferences = $7, updated_at = $8
		 WHERE user_id = $1`,
		profile.UserID, profile.Email,
		profile.Industry, profile.Bio, profile.Experience,
		pq.Array(profile.Skills), prefs, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", profile.UserID)
	}
	return nil
}

// Upsert はプロフィールを作成または全フィールド置換する。
// ON CONFLICT DO UPDATEにより同一user_idへの同時呼び出しでも
// レコードは1件に収束する。
func (r *PostgresProfileRepo) Upsert(ctx context.Context, profile *model.Profile) error {
	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, industry, bio, experience, skills, preferences, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id) DO UPDATE SET
		     email = EXCLUDED.email,
		     industry = EXCLUDED.industry,
		     bio = EXCLUDED.bio,
		     experience = EXCLUDED.experience,
		     skills = EXCLUDED.skills,
		     preferences = EXCLUDED.preferences,
		     updated_at = EXCLUDED.updated_at`,
		profile.UserID, profile.Email,
		profile.Industry, profile.Bio, profile.Experience,
		pq.Array(profile.Skills), prefs,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
