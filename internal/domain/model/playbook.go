package model

import "time"

type PlaybookStatus string

const (
	PlaybookDraft     PlaybookStatus = "draft"
	PlaybookPublished PlaybookStatus = "published"
	PlaybookArchived  PlaybookStatus = "archived"
)

type ObjectionResponse struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

type BattleCard struct {
	CompetitorName    string `json:"competitor_name"`
	OurAdvantage      string `json:"our_advantage"`
	TheirWeakness     string `json:"their_weakness"`
	KeyDifferentiator string `json:"key_differentiator"`
}

// ContentSection is the generated body of a scenario.
type ContentSection struct {
	OpeningStrategy    string              `json:"opening_strategy,omitempty"`
	KeyMessages        []string            `json:"key_messages"`
	ValuePropositions  []string            `json:"value_propositions"`
	ProofPoints        []string            `json:"proof_points"`
	DiscoveryQuestions []string            `json:"discovery_questions"`
	ObjectionHandling  []ObjectionResponse `json:"objection_handling"`
	BattleCards        []BattleCard        `json:"competitive_battle_cards"`
	NextSteps          []string            `json:"next_steps"`
}

type Scenario struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	DealStage          string         `json:"deal_stage"`
	MeetingContext     string         `json:"meeting_context,omitempty"`
	CustomerPainPoints []string       `json:"customer_pain_points"`
	Competitors        []string       `json:"competitors"`
	Content            ContentSection `json:"content"`
}

type ScenarioCreate struct {
	Title              string   `json:"title"`
	DealStage          string   `json:"deal_stage"`
	MeetingContext     string   `json:"meeting_context,omitempty"`
	CustomerPainPoints []string `json:"customer_pain_points,omitempty"`
	Competitors        []string `json:"competitors,omitempty"`
}

// Playbook groups sales scenarios for a persona/industry/product line.
type Playbook struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	TargetPersona string         `json:"target_persona,omitempty"`
	Industry      string         `json:"industry,omitempty"`
	ProductLine   string         `json:"product_line,omitempty"`
	Status        PlaybookStatus `json:"status"`
	IsTemplate    bool           `json:"is_template"`
	Scenarios     []Scenario     `json:"scenarios"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type PlaybookCreate struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	TargetPersona string `json:"target_persona,omitempty"`
	Industry      string `json:"industry,omitempty"`
	ProductLine   string `json:"product_line,omitempty"`
}

type PlaybookUpdate struct {
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description,omitempty"`
	TargetPersona string         `json:"target_persona,omitempty"`
	Industry      string         `json:"industry,omitempty"`
	ProductLine   string         `json:"product_line,omitempty"`
	Status        PlaybookStatus `json:"status,omitempty"`
}

type PlaybookList struct {
	Playbooks []Playbook `json:"playbooks"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
