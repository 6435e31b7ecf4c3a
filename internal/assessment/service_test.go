package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hirely/gateway/internal/model"
)

// --- モック定義 ---

type mockAssessmentRepo struct {
	listFn   func(ctx context.Context, userID string) ([]*model.Assessment, error)
	createFn func(ctx context.Context, a *model.Assessment) error
}

func (m *mockAssessmentRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Assessment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []*model.Assessment{}, nil
}

func (m *mockAssessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

type mockProfileEnsurer struct {
	ensureFn    func(ctx context.Context, userID, email string) (*model.Profile, error)
	ensureCalls int
}

func (m *mockProfileEnsurer) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	m.ensureCalls++
	if m.ensureFn != nil {
		return m.ensureFn(ctx, userID, email)
	}
	return &model.Profile{UserID: userID, Email: email}, nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// --- テスト ---

func TestListAssessments_EnsuresProfileFirst(t *testing.T) {
	ensurer := &mockProfileEnsurer{}
	repo := &mockAssessmentRepo{}
	svc := NewService(repo, ensurer, passthroughSanitizer{})

	assessments, err := svc.ListAssessments(context.Background(), "user-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ensurer.ensureCalls != 1 {
		t.Errorf("ensure calls = %d, want 1", ensurer.ensureCalls)
	}
	if assessments == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestListAssessments_ProfileEnsureFails(t *testing.T) {
	ensurer := &mockProfileEnsurer{
		ensureFn: func(ctx context.Context, userID, email string) (*model.Profile, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(&mockAssessmentRepo{}, ensurer, passthroughSanitizer{})

	_, err := svc.ListAssessments(context.Background(), "user-1", "a@example.com")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateAssessment_SetsIDAndDefaults(t *testing.T) {
	var created *model.Assessment
	repo := &mockAssessmentRepo{
		createFn: func(ctx context.Context, a *model.Assessment) error {
			created = a
			return nil
		},
	}
	ensurer := &mockProfileEnsurer{}
	svc := NewService(repo, ensurer, passthroughSanitizer{})

	a, err := svc.CreateAssessment(context.Background(), "user-1", "a@example.com", &model.AssessmentInput{
		QuizScore: 8.5,
		Category:  "Technical",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ensurer.ensureCalls != 1 {
		t.Errorf("ensure calls = %d, want 1", ensurer.ensureCalls)
	}
	if created == nil {
		t.Fatal("expected repo.Create to be called")
	}
	if a.ID == "" {
		t.Error("expected generated ID")
	}
	if a.UserID != "user-1" || a.UserEmail != "a@example.com" {
		t.Errorf("identity fields = %q/%q, want from credential", a.UserID, a.UserEmail)
	}
	if a.QuizScore != 8.5 {
		t.Errorf("QuizScore = %v, want 8.5", a.QuizScore)
	}
	// questionsが省略された場合は空のJSON配列
	if string(a.Questions) != "[]" {
		t.Errorf("Questions = %s, want []", a.Questions)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestCreateAssessment_PreservesQuestions(t *testing.T) {
	repo := &mockAssessmentRepo{}
	svc := NewService(repo, &mockProfileEnsurer{}, passthroughSanitizer{})

	questions := json.RawMessage(`[{"question":"What is a goroutine?","answer":"a"}]`)
	a, err := svc.CreateAssessment(context.Background(), "user-1", "a@example.com", &model.AssessmentInput{
		QuizScore: 5,
		Questions: questions,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(a.Questions) != string(questions) {
		t.Errorf("Questions = %s, want preserved", a.Questions)
	}
}

func TestCreateAssessment_NilInput_ValidationError(t *testing.T) {
	svc := NewService(&mockAssessmentRepo{}, &mockProfileEnsurer{}, passthroughSanitizer{})

	_, err := svc.CreateAssessment(context.Background(), "user-1", "a@example.com", nil)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAssessment_RepoError(t *testing.T) {
	repo := &mockAssessmentRepo{
		createFn: func(ctx context.Context, a *model.Assessment) error {
			return errors.New("insert failed")
		},
	}
	svc := NewService(repo, &mockProfileEnsurer{}, passthroughSanitizer{})

	_, err := svc.CreateAssessment(context.Background(), "user-1", "a@example.com", &model.AssessmentInput{QuizScore: 1})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateAssessment_SanitizesFreeText(t *testing.T) {
	var created *model.Assessment
	repo := &mockAssessmentRepo{
		createFn: func(ctx context.Context, a *model.Assessment) error {
			created = a
			return nil
		},
	}

	// サニタイザがタグを落とすことを前提とした簡易実装
	svc := NewService(repo, &mockProfileEnsurer{}, stripSanitizer{})

	_, err := svc.CreateAssessment(context.Background(), "user-1", "a@example.com", &model.AssessmentInput{
		QuizScore:      3,
		Category:       "<b>Technical</b>",
		ImprovementTip: "<script>x</script>practice more",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Category != "Technical" {
		t.Errorf("Category = %q, want sanitized", created.Category)
	}
	if created.ImprovementTip != "practice more" {
		t.Errorf("ImprovementTip = %q, want sanitized", created.ImprovementTip)
	}
}

type stripSanitizer struct{}

func (stripSanitizer) Sanitize(raw string) string {
	switch raw {
	case "<b>Technical</b>":
		return "Technical"
	case "<script>x</script>practice more":
		return "practice more"
	default:
		return raw
	}
}
