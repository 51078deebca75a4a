package rest

import (
	"context"
	"net/http"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

var _ api.TalkPointAPI = (*TalkPointClient)(nil)

type TalkPointClient struct {
	c *Client
}

func NewTalkPointClient(c *Client) *TalkPointClient { return &TalkPointClient{c: c} }

func (t *TalkPointClient) Generate(ctx context.Context, req model.TalkPointRequest) (*model.TalkPoint, error) {
	var out model.TalkPoint
	err := t.c.do(ctx, call{
		resource: "talk_points", operation: "generate",
		method: http.MethodPost, path: "/talk-points/generate",
		authed: true, body: req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TalkPointClient) List(ctx context.Context) ([]model.TalkPoint, error) {
	var out []model.TalkPoint
	err := t.c.do(ctx, call{
		resource: "talk_points", operation: "list",
		method: http.MethodGet, path: "/talk-points",
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *TalkPointClient) Get(ctx context.Context, talkPointID string) (*model.TalkPoint, error) {
	var out model.TalkPoint
	err := t.c.do(ctx, call{
		resource: "talk_points", operation: "get",
		method: http.MethodGet, path: "/talk-points/" + talkPointID,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TalkPointClient) Delete(ctx context.Context, talkPointID string) error {
	return t.c.do(ctx, call{
		resource: "talk_points", operation: "delete",
		method: http.MethodDelete, path: "/talk-points/" + talkPointID,
		authed: true,
	}, nil)
}
