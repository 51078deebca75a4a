package rest

import (
	"context"
	"net/http"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

var _ api.AnalyticsAPI = (*AnalyticsClient)(nil)

type AnalyticsClient struct {
	c *Client
}

func NewAnalyticsClient(c *Client) *AnalyticsClient { return &AnalyticsClient{c: c} }

func (a *AnalyticsClient) Trends(ctx context.Context) (*model.PerformanceTrends, error) {
	var out model.PerformanceTrends
	err := a.c.do(ctx, call{
		resource: "analytics", operation: "trends",
		method: http.MethodGet, path: "/analytics/trends",
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AnalyticsClient) Improvements(ctx context.Context) (*model.ImprovementReport, error) {
	var out model.ImprovementReport
	err := a.c.do(ctx, call{
		resource: "analytics", operation: "improvements",
		method: http.MethodGet, path: "/analytics/improvements",
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
