package model

import (
	"time"
)

type PreparationType string

const (
	PrepInterview    PreparationType = "Interview"
	PrepCorporate    PreparationType = "Corporate"
	PrepPitch        PreparationType = "Pitch"
	PrepSales        PreparationType = "Sales"
	PrepPresentation PreparationType = "Presentation"
	PrepOther        PreparationType = "Other"
)

type SessionStatus string

const (
	SessionSetup      SessionStatus = "setup"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionArchived   SessionStatus = "archived"
)

// ChatMessage is one entry in a session transcript. Ordering within the
// transcript is insertion order and is never changed after the fact.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" | "ai"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	// Knowledge-base documents the backend retrieved for an ai turn.
	// Unset for user messages.
	ContextDocuments []string `json:"context_documents,omitempty"`
}

// Session is the aggregate root for one practice conversation.
type Session struct {
	ID              string          `json:"session_id"`
	UserID          string          `json:"user_id"`
	PreparationType PreparationType `json:"preparation_type"`
	MeetingSubtype  string          `json:"meeting_subtype,omitempty"`
	ContextPayload  map[string]any  `json:"context_payload"`
	Transcript      []ChatMessage   `json:"transcript"`
	Status          SessionStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

func NewSession(id, userID string, prep PreparationType, subtype string, contextPayload map[string]any) *Session {
	if contextPayload == nil {
		contextPayload = map[string]any{}
	}
	return &Session{
		ID:              id,
		UserID:          userID,
		PreparationType: prep,
		MeetingSubtype:  subtype,
		ContextPayload:  contextPayload,
		Transcript:      make([]ChatMessage, 0, 8),
		Status:          SessionInProgress,
		CreatedAt:       time.Now(),
	}
}

func (s *Session) AddMessage(role, message string) {
	s.Transcript = append(s.Transcript, ChatMessage{
		Role:      role,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// TurnCount reports completed user+ai exchange pairs.
func (s *Session) TurnCount() int {
	return len(s.Transcript) / 2
}

// SessionCreate carries the setup fields for a new session.
type SessionCreate struct {
	PreparationType PreparationType `json:"preparation_type"`
	MeetingSubtype  string          `json:"meeting_subtype,omitempty"`
	Agenda          string          `json:"agenda,omitempty"`
	Tone            string          `json:"tone,omitempty"`
	RoleContext     string          `json:"role_context,omitempty"`
}

// SessionList is the paginated envelope returned by the list endpoint.
// Total is authoritative for pagination math regardless of how many
// sessions were actually returned.
type SessionList struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// SendMessageResult is the backend's reply to a message send. The backend
// returns no timestamp here; clients stamp the AI message themselves.
type SendMessageResult struct {
	AIResponse string `json:"ai_response"`
	TurnNumber int    `json:"turn_number"`
}
