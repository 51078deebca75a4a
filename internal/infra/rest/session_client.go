package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"prapp-client/internal/domain"
	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

// Compile-time check
var _ api.SessionAPI = (*SessionClient)(nil)

// SessionClient is the typed façade over the /sessions resource family.
type SessionClient struct {
	c *Client
}

func NewSessionClient(c *Client) *SessionClient { return &SessionClient{c: c} }

func (s *SessionClient) Create(ctx context.Context, req model.SessionCreate) (*model.Session, error) {
	var out model.Session
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "create",
		method: http.MethodPost, path: "/sessions",
		authed: true, body: req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var out model.Session
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "get",
		method: http.MethodGet, path: "/sessions/" + sessionID,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) List(ctx context.Context, opts api.ListOptions) (*model.SessionList, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status_filter", string(opts.Status))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	var out model.SessionList
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "list",
		method: http.MethodGet, path: "/sessions",
		query: q, authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) UpdateStatus(ctx context.Context, sessionID string, status model.SessionStatus) (*model.Session, error) {
	var out model.Session
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "update",
		method: http.MethodPatch, path: "/sessions/" + sessionID,
		authed: true, body: map[string]model.SessionStatus{"status": status},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) SendMessage(ctx context.Context, sessionID, message string) (*model.SendMessageResult, error) {
	var out model.SendMessageResult
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "send_message",
		method: http.MethodPost, path: "/sessions/" + sessionID + "/messages",
		authed: true, body: map[string]string{"message": message},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) Complete(ctx context.Context, sessionID string) (*model.Session, error) {
	var out model.Session
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "complete",
		method: http.MethodPost, path: "/sessions/" + sessionID + "/complete",
		authed: true,
	}, &out)
	if err != nil {
		// The backend rejects /complete on an already-completed session
		// with a 400; surface that as its own sentinel so a retrying
		// caller can proceed straight to evaluation.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest &&
			strings.Contains(strings.ToLower(apiErr.Detail), "already") {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyCompleted, apiErr.Detail)
		}
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) Evaluate(ctx context.Context, sessionID string, force bool) (*model.SessionEvaluation, error) {
	var out model.SessionEvaluation
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "evaluate",
		method: http.MethodPost, path: "/sessions/" + sessionID + "/evaluate",
		authed: true, body: model.EvaluateRequest{ForceReevaluate: force},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionClient) GetEvaluation(ctx context.Context, sessionID string) (*model.SessionEvaluation, error) {
	var out model.SessionEvaluation
	err := s.c.do(ctx, call{
		resource: "sessions", operation: "get_evaluation",
		method: http.MethodGet, path: "/sessions/" + sessionID + "/evaluation",
		authed: true,
	}, &out)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %s", domain.ErrNoEvaluation, sessionID)
		}
		return nil, err
	}
	return &out, nil
}
