package model

import "time"

// EvaluationScores holds the six universal dimensions, 0-100 each.
type EvaluationScores struct {
	ClarityStructure   int `json:"clarity_structure"`
	RelevanceFocus     int `json:"relevance_focus"`
	ConfidenceDelivery int `json:"confidence_delivery"`
	LanguageQuality    int `json:"language_quality"`
	ToneAlignment      int `json:"tone_alignment"`
	Engagement         int `json:"engagement"`
}

// ImprovementArea is one dimension flagged for work, with a concrete
// suggestion and a high/medium/low priority.
type ImprovementArea struct {
	Dimension    string `json:"dimension"`
	CurrentLevel string `json:"current_level"`
	Suggestion   string `json:"suggestion"`
	Priority     string `json:"priority"`
}

// SessionEvaluation is the scored feedback created once per completed
// session. Immutable from the client's point of view.
type SessionEvaluation struct {
	ID                  string            `json:"evaluation_id"`
	SessionID           string            `json:"session_id"`
	UserID              string            `json:"user_id"`
	UniversalScores     EvaluationScores  `json:"universal_scores"`
	ContextScores       map[string]int    `json:"context_scores,omitempty"`
	ImprovementAreas    []ImprovementArea `json:"improvement_areas"`
	PracticeSuggestions []string          `json:"practice_suggestions"`
	Strengths           []string          `json:"strengths"`
	OverallScore        int               `json:"overall_score"`
	Summary             string            `json:"summary"`
	CreatedAt           time.Time         `json:"created_at"`
}

// EvaluateRequest is the body for POST /sessions/{id}/evaluate.
type EvaluateRequest struct {
	ForceReevaluate bool `json:"force_reevaluate,omitempty"`
}
