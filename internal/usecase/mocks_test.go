// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prapp-client/internal/domain"
	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
	"prapp-client/internal/domain/ports/store"
	"prapp-client/internal/usecase"
)

// Compile-time checks
var (
	_ api.SessionAPI        = (*mockSessionAPI)(nil)
	_ api.AuthAPI           = (*mockAuthAPI)(nil)
	_ api.AnalyticsAPI      = (*mockAnalyticsAPI)(nil)
	_ store.PreferenceStore = (*memPrefStore)(nil)
)

// mockSessionAPI lets each test override exactly the calls it cares about.
// Unset functions fail with domain.ErrNotFound.
type mockSessionAPI struct {
	CreateFunc        func(ctx context.Context, req model.SessionCreate) (*model.Session, error)
	GetFunc           func(ctx context.Context, sessionID string) (*model.Session, error)
	ListFunc          func(ctx context.Context, opts api.ListOptions) (*model.SessionList, error)
	UpdateStatusFunc  func(ctx context.Context, sessionID string, status model.SessionStatus) (*model.Session, error)
	SendMessageFunc   func(ctx context.Context, sessionID, message string) (*model.SendMessageResult, error)
	CompleteFunc      func(ctx context.Context, sessionID string) (*model.Session, error)
	EvaluateFunc      func(ctx context.Context, sessionID string, force bool) (*model.SessionEvaluation, error)
	GetEvaluationFunc func(ctx context.Context, sessionID string) (*model.SessionEvaluation, error)
}

func (m *mockSessionAPI) Create(ctx context.Context, req model.SessionCreate) (*model.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) List(ctx context.Context, opts api.ListOptions) (*model.SessionList, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) UpdateStatus(ctx context.Context, sessionID string, status model.SessionStatus) (*model.Session, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, sessionID, status)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) SendMessage(ctx context.Context, sessionID, message string) (*model.SendMessageResult, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, sessionID, message)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) Complete(ctx context.Context, sessionID string) (*model.Session, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, sessionID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) Evaluate(ctx context.Context, sessionID string, force bool) (*model.SessionEvaluation, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, sessionID, force)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionAPI) GetEvaluation(ctx context.Context, sessionID string) (*model.SessionEvaluation, error) {
	if m.GetEvaluationFunc != nil {
		return m.GetEvaluationFunc(ctx, sessionID)
	}
	return nil, domain.ErrNoEvaluation
}

type mockAuthAPI struct {
	ProfileFunc func(ctx context.Context) (*model.User, error)
}

func (m *mockAuthAPI) Signup(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuthAPI) Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuthAPI) Profile(ctx context.Context) (*model.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAuthAPI) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	return nil, domain.ErrNotFound
}

type mockAnalyticsAPI struct {
	TrendsFunc       func(ctx context.Context) (*model.PerformanceTrends, error)
	ImprovementsFunc func(ctx context.Context) (*model.ImprovementReport, error)
}

func (m *mockAnalyticsAPI) Trends(ctx context.Context) (*model.PerformanceTrends, error) {
	if m.TrendsFunc != nil {
		return m.TrendsFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAnalyticsAPI) Improvements(ctx context.Context) (*model.ImprovementReport, error) {
	if m.ImprovementsFunc != nil {
		return m.ImprovementsFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

// memPrefStore is a small in-memory preference store used by unit tests.
type memPrefStore struct {
	mu      sync.Mutex
	prefs   *model.Preferences
	token   string
	loadErr error
	saveErr error
}

func (m *memPrefStore) Load(ctx context.Context) (model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return model.DefaultPreferences(), m.loadErr
	}
	if m.prefs == nil {
		return model.DefaultPreferences(), nil
	}
	return *m.prefs, nil
}

func (m *memPrefStore) Save(ctx context.Context, prefs model.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := prefs
	m.prefs = &cp
	return nil
}

func (m *memPrefStore) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memPrefStore) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memPrefStore) Close() error { return nil }

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// inProgressSession builds a session with n alternating user/ai messages.
func inProgressSession(id string, n int) *model.Session {
	s := model.NewSession(id, "user-1", model.PrepInterview, "", nil)
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "ai"
		}
		s.AddMessage(role, "message")
	}
	return s
}

// newActiveController loads a controller with an in-progress session of n
// messages, wired to the given mock.
func newActiveController(t interface{ Fatalf(string, ...any) }, mock *mockSessionAPI, id string, n int, opts ...usecase.Option) usecase.SessionUseCase {
	if mock.GetFunc == nil {
		sess := inProgressSession(id, n)
		mock.GetFunc = func(ctx context.Context, sessionID string) (*model.Session, error) {
			cp := *sess
			cp.Transcript = append([]model.ChatMessage(nil), sess.Transcript...)
			return &cp, nil
		}
	}
	opts = append([]usecase.Option{usecase.WithTickInterval(time.Hour)}, opts...)
	uc := usecase.NewSessionUseCase(mock, newTestLogger(), opts...)
	if err := uc.Load(context.Background(), id); err != nil {
		t.Fatalf("load: %v", err)
	}
	return uc
}
