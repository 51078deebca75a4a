package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

var _ api.PlaybookAPI = (*PlaybookClient)(nil)

type PlaybookClient struct {
	c *Client
}

func NewPlaybookClient(c *Client) *PlaybookClient { return &PlaybookClient{c: c} }

func (p *PlaybookClient) Create(ctx context.Context, req model.PlaybookCreate) (*model.Playbook, error) {
	var out model.Playbook
	err := p.c.do(ctx, call{
		resource: "playbooks", operation: "create",
		method: http.MethodPost, path: "/playbooks",
		authed: true, body: req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PlaybookClient) List(ctx context.Context, limit, offset int) (*model.PlaybookList, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out model.PlaybookList
	err := p.c.do(ctx, call{
		resource: "playbooks", operation: "list",
		method: http.MethodGet, path: "/playbooks",
		query: q, authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PlaybookClient) Get(ctx context.Context, playbookID string) (*model.Playbook, error) {
	var out model.Playbook
	err := p.c.do(ctx, call{
		resource: "playbooks", operation: "get",
		method: http.MethodGet, path: "/playbooks/" + playbookID,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PlaybookClient) Update(ctx context.Context, playbookID string, req model.PlaybookUpdate) (*model.Playbook, error) {
	var out model.Playbook
	err := p.c.do(ctx, call{
		resource: "playbooks", operation: "update",
		method: http.MethodPut, path: "/playbooks/" + playbookID,
		authed: true, body: req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PlaybookClient) Delete(ctx context.Context, playbookID string) error {
	return p.c.do(ctx, call{
		resource: "playbooks", operation: "delete",
		method: http.MethodDelete, path: "/playbooks/" + playbookID,
		authed: true,
	}, nil)
}

func (p *PlaybookClient) AddScenario(ctx context.Context, playbookID string, req model.ScenarioCreate) (*model.Scenario, error) {
	var out model.Scenario
	err := p.c.do(ctx, call{
		resource: "playbooks", operation: "add_scenario",
		method: http.MethodPost, path: "/playbooks/" + playbookID + "/scenarios",
		authed: true, body: req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PlaybookClient) DeleteScenario(ctx context.Context, playbookID, scenarioID string) error {
	return p.c.do(ctx, call{
		resource: "playbooks", operation: "delete_scenario",
		method: http.MethodDelete, path: "/playbooks/" + playbookID + "/scenarios/" + scenarioID,
		authed: true,
	}, nil)
}
