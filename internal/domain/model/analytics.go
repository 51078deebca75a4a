package model

import "time"

// ScorePoint is one entry in the score-progression time series.
type ScorePoint struct {
	Date         time.Time      `json:"date"`
	OverallScore int            `json:"overall_score"`
	Scores       map[string]int `json:"scores"`
	SessionID    string         `json:"session_id"`
	EvaluationID string         `json:"evaluation_id"`
}

// PerformanceTrends is the GET /analytics/trends response.
type PerformanceTrends struct {
	AverageScores       map[string]float64 `json:"average_scores"`
	ImprovementVelocity float64            `json:"improvement_velocity"`
	RecurringWeaknesses []string           `json:"recurring_weaknesses"`
	ScoreProgression    []ScorePoint       `json:"score_progression"`
	TotalEvaluations    int                `json:"total_evaluations"`
	RecentTrend         string             `json:"recent_trend"` // improving|stable|declining|no_data
}

// ImprovementReport is the GET /analytics/improvements response.
type ImprovementReport struct {
	CurrentFocusAreas   []ImprovementArea `json:"current_focus_areas"`
	PracticeSuggestions []string          `json:"practice_suggestions"`
	RecurringWeaknesses []string          `json:"recurring_weaknesses"`
	LastEvaluationDate  *time.Time        `json:"last_evaluation_date,omitempty"`
	Message             string            `json:"message,omitempty"`
}
