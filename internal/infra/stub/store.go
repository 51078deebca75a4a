package stub

import (
	"sort"
	"sync"

	"prapp-client/internal/domain/model"
)

type stubUser struct {
	model.User
	Password string
}

// memStore holds all stub state. Good for development and tests; nothing
// survives a restart.
type memStore struct {
	mu          sync.Mutex
	usersByID   map[string]*stubUser
	usersByMail map[string]*stubUser
	sessions    map[string]*model.Session
	evaluations map[string]*model.SessionEvaluation // keyed by session id
	documents   map[string]*model.Document
	talkPoints  map[string]*model.TalkPoint
	playbooks   map[string]*model.Playbook
}

func newMemStore() *memStore {
	return &memStore{
		usersByID:   map[string]*stubUser{},
		usersByMail: map[string]*stubUser{},
		sessions:    map[string]*model.Session{},
		evaluations: map[string]*model.SessionEvaluation{},
		documents:   map[string]*model.Document{},
		talkPoints:  map[string]*model.TalkPoint{},
		playbooks:   map[string]*model.Playbook{},
	}
}

// sessionsOf returns a user's sessions sorted newest first, optionally
// filtered by status.
func (m *memStore) sessionsOf(userID string, status model.SessionStatus) []*model.Session {
	var out []*model.Session
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) evaluationsOf(userID string) []*model.SessionEvaluation {
	var out []*model.SessionEvaluation
	for _, e := range m.evaluations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
