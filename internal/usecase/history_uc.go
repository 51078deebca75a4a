package usecase

import (
	"context"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
)

// HistoryPage is one page of past sessions. Pagination math always uses the
// backend's total; the length of Sessions may be smaller (filters, final
// page) and must not be used to derive page counts.
type HistoryPage struct {
	Sessions []model.Session
	Total    int
	Page     int
	PerPage  int
}

func (p HistoryPage) PageCount() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p HistoryPage) HasNext() bool { return p.Page+1 < p.PageCount() }

// Compile-time check
var _ HistoryUseCase = (*historyUC)(nil)

type HistoryUseCase interface {
	Page(ctx context.Context, status model.SessionStatus, page, perPage int) (*HistoryPage, error)
	Archive(ctx context.Context, sessionID string) error
}

type historyUC struct {
	sessions api.SessionAPI
}

func NewHistoryUseCase(sessions api.SessionAPI) *historyUC {
	return &historyUC{sessions: sessions}
}

func (h *historyUC) Page(ctx context.Context, status model.SessionStatus, page, perPage int) (*HistoryPage, error) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 10
	}
	list, err := h.sessions.List(ctx, api.ListOptions{
		Status: status,
		Limit:  perPage,
		Offset: page * perPage,
	})
	if err != nil {
		return nil, err
	}
	return &HistoryPage{
		Sessions: list.Sessions,
		Total:    list.Total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// Archive moves a completed session to archived; sessions are never
// deleted from history.
func (h *historyUC) Archive(ctx context.Context, sessionID string) error {
	_, err := h.sessions.UpdateStatus(ctx, sessionID, model.SessionArchived)
	return err
}
