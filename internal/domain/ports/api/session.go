package api

import (
	"context"

	"prapp-client/internal/domain/model"
)

// ListOptions carries pagination and optional status filtering for the
// session list endpoint.
type ListOptions struct {
	Status model.SessionStatus // empty means no filter
	Limit  int
	Offset int
}

// SessionAPI is the backend session resource family.
type SessionAPI interface {
	Create(ctx context.Context, req model.SessionCreate) (*model.Session, error)
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	List(ctx context.Context, opts ListOptions) (*model.SessionList, error)
	UpdateStatus(ctx context.Context, sessionID string, status model.SessionStatus) (*model.Session, error)
	SendMessage(ctx context.Context, sessionID, message string) (*model.SendMessageResult, error)
	Complete(ctx context.Context, sessionID string) (*model.Session, error)
	Evaluate(ctx context.Context, sessionID string, force bool) (*model.SessionEvaluation, error)
	GetEvaluation(ctx context.Context, sessionID string) (*model.SessionEvaluation, error)
}
