package api

import (
	"context"

	"prapp-client/internal/domain/model"
)

type AnalyticsAPI interface {
	Trends(ctx context.Context) (*model.PerformanceTrends, error)
	Improvements(ctx context.Context) (*model.ImprovementReport, error)
}

type DocumentAPI interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*model.DocumentUploadResult, error)
	List(ctx context.Context, limit, offset int) (*model.DocumentList, error)
	Get(ctx context.Context, documentID string) (*model.Document, error)
	Delete(ctx context.Context, documentID string) error
}

type TalkPointAPI interface {
	Generate(ctx context.Context, req model.TalkPointRequest) (*model.TalkPoint, error)
	List(ctx context.Context) ([]model.TalkPoint, error)
	Get(ctx context.Context, talkPointID string) (*model.TalkPoint, error)
	Delete(ctx context.Context, talkPointID string) error
}

type PlaybookAPI interface {
	Create(ctx context.Context, req model.PlaybookCreate) (*model.Playbook, error)
	List(ctx context.Context, limit, offset int) (*model.PlaybookList, error)
	Get(ctx context.Context, playbookID string) (*model.Playbook, error)
	Update(ctx context.Context, playbookID string, req model.PlaybookUpdate) (*model.Playbook, error)
	Delete(ctx context.Context, playbookID string) error
	AddScenario(ctx context.Context, playbookID string, req model.ScenarioCreate) (*model.Scenario, error)
	DeleteScenario(ctx context.Context, playbookID, scenarioID string) error
}

type AuthAPI interface {
	Signup(ctx context.Context, creds model.Credentials) (*model.AuthToken, error)
	Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
}
