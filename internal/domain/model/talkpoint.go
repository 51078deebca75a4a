package model

import "time"

// TalkPointRequest describes the customer situation talk points should be
// generated for.
type TalkPointRequest struct {
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPersona string `json:"customer_persona,omitempty"`
	DealStage       string `json:"deal_stage,omitempty"`
	Context         string `json:"context,omitempty"`
}

// TalkPoint is a generated set of sales talking points.
type TalkPoint struct {
	ID               string    `json:"talk_point_id"`
	CustomerName     string    `json:"customer_name,omitempty"`
	CustomerPersona  string    `json:"customer_persona,omitempty"`
	DealStage        string    `json:"deal_stage,omitempty"`
	GeneratedContent string    `json:"generated_content"`
	CreatedAt        time.Time `json:"created_at"`
}
