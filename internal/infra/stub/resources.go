package stub

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"prapp-client/internal/domain/model"
)

// ---- analytics ----

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	evals := s.store.evaluationsOf(requestUserID(r))
	s.store.mu.Unlock()

	writeJSON(w, http.StatusOK, computeTrends(evals))
}

func (s *Server) handleImprovements(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	evals := s.store.evaluationsOf(requestUserID(r))
	s.store.mu.Unlock()

	if len(evals) == 0 {
		writeJSON(w, http.StatusOK, model.ImprovementReport{
			CurrentFocusAreas:   []model.ImprovementArea{},
			PracticeSuggestions: []string{},
			RecurringWeaknesses: []string{},
			Message:             "Complete a session to receive personalized improvement recommendations",
		})
		return
	}

	latest := evals[len(evals)-1]
	writeJSON(w, http.StatusOK, model.ImprovementReport{
		CurrentFocusAreas:   latest.ImprovementAreas,
		PracticeSuggestions: latest.PracticeSuggestions,
		RecurringWeaknesses: recurringWeaknesses(evals),
		LastEvaluationDate:  &latest.CreatedAt,
	})
}

func computeTrends(evals []*model.SessionEvaluation) model.PerformanceTrends {
	if len(evals) == 0 {
		return model.PerformanceTrends{
			AverageScores:       map[string]float64{},
			RecurringWeaknesses: []string{},
			ScoreProgression:    []model.ScorePoint{},
			RecentTrend:         "no_data",
		}
	}

	sums := map[string]int{}
	progression := make([]model.ScorePoint, 0, len(evals))
	for _, e := range evals {
		sums["clarity_structure"] += e.UniversalScores.ClarityStructure
		sums["relevance_focus"] += e.UniversalScores.RelevanceFocus
		sums["confidence_delivery"] += e.UniversalScores.ConfidenceDelivery
		sums["language_quality"] += e.UniversalScores.LanguageQuality
		sums["tone_alignment"] += e.UniversalScores.ToneAlignment
		sums["engagement"] += e.UniversalScores.Engagement
		sums["overall"] += e.OverallScore

		progression = append(progression, model.ScorePoint{
			Date:         e.CreatedAt,
			OverallScore: e.OverallScore,
			Scores: map[string]int{
				"clarity_structure":   e.UniversalScores.ClarityStructure,
				"relevance_focus":     e.UniversalScores.RelevanceFocus,
				"confidence_delivery": e.UniversalScores.ConfidenceDelivery,
				"language_quality":    e.UniversalScores.LanguageQuality,
				"tone_alignment":      e.UniversalScores.ToneAlignment,
				"engagement":          e.UniversalScores.Engagement,
			},
			SessionID:    e.SessionID,
			EvaluationID: e.ID,
		})
	}

	averages := make(map[string]float64, len(sums))
	for dim, total := range sums {
		averages[dim] = math.Round(float64(total)/float64(len(evals))*10) / 10
	}

	return model.PerformanceTrends{
		AverageScores:       averages,
		ImprovementVelocity: improvementVelocity(evals),
		RecurringWeaknesses: recurringWeaknesses(evals),
		ScoreProgression:    progression,
		TotalEvaluations:    len(evals),
		RecentTrend:         recentTrend(evals),
	}
}

// improvementVelocity is the linear-regression slope of overall scores,
// normalized to [-1, 1] assuming at most 10 points of change per evaluation.
func improvementVelocity(evals []*model.SessionEvaluation) float64 {
	n := len(evals)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	var yMean float64
	for _, e := range evals {
		yMean += float64(e.OverallScore)
	}
	yMean /= float64(n)

	var num, den float64
	for i, e := range evals {
		dx := float64(i) - xMean
		num += dx * (float64(e.OverallScore) - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	v := num / den / 10
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return math.Round(v*1000) / 1000
}

// recurringWeaknesses returns dimensions flagged in at least two
// evaluations, most frequent first, capped at five.
func recurringWeaknesses(evals []*model.SessionEvaluation) []string {
	counts := map[string]int{}
	for _, e := range evals {
		for _, area := range e.ImprovementAreas {
			if area.Dimension != "" {
				counts[area.Dimension]++
			}
		}
	}
	recurring := []string{}
	for dim, c := range counts {
		if c >= 2 {
			recurring = append(recurring, dim)
		}
	}
	sort.Slice(recurring, func(i, j int) bool {
		if counts[recurring[i]] != counts[recurring[j]] {
			return counts[recurring[i]] > counts[recurring[j]]
		}
		return recurring[i] < recurring[j]
	})
	if len(recurring) > 5 {
		recurring = recurring[:5]
	}
	return recurring
}

func recentTrend(evals []*model.SessionEvaluation) string {
	if len(evals) < 2 {
		return "no_data"
	}
	recent := evals
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	mid := len(recent) / 2
	var first, second float64
	for _, e := range recent[:mid] {
		first += float64(e.OverallScore)
	}
	first /= float64(mid)
	for _, e := range recent[mid:] {
		second += float64(e.OverallScore)
	}
	second /= float64(len(recent) - mid)

	switch diff := second - first; {
	case diff > 5:
		return "improving"
	case diff < -5:
		return "declining"
	default:
		return "stable"
	}
}

// ---- documents ----

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	now := time.Now()
	doc := &model.Document{
		ID:          uuid.NewString(),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Source:      model.DocSourceUpload,
		Status:      model.DocumentIndexed,
		FileSize:    header.Size,
		ChunkCount:  1 + int(header.Size/4096),
		UploadDate:  now,
		IndexedAt:   &now,
	}

	s.store.mu.Lock()
	s.store.documents[doc.ID] = doc
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, model.DocumentUploadResult{
		ID:       doc.ID,
		Filename: doc.Filename,
		Status:   doc.Status,
		Message:  "Document uploaded and indexed",
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	s.store.mu.Lock()
	all := make([]model.Document, 0, len(s.store.documents))
	for _, d := range s.store.documents {
		all = append(all, *d)
	}
	s.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].UploadDate.After(all[j].UploadDate) })

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, model.DocumentList{
		Documents: all[offset:end], Total: total, Limit: limit, Offset: offset,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	s.store.mu.Lock()
	doc, ok := s.store.documents[id]
	s.store.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Document with id %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	s.store.mu.Lock()
	_, ok := s.store.documents[id]
	delete(s.store.documents, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Document with id %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// ---- talk points ----

func (s *Server) handleGenerateTalkPoint(w http.ResponseWriter, r *http.Request) {
	var body model.TalkPointRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tp := &model.TalkPoint{
		ID:              uuid.NewString(),
		CustomerName:    body.CustomerName,
		CustomerPersona: body.CustomerPersona,
		DealStage:       body.DealStage,
		GeneratedContent: fmt.Sprintf(
			"Key talking points for %s (%s stage):\n1. Open with their stated priorities.\n2. Tie value to measurable outcomes.\n3. Close with a concrete next step.",
			orDefault(body.CustomerName, "the customer"), orDefault(body.DealStage, "discovery")),
		CreatedAt: time.Now(),
	}

	s.store.mu.Lock()
	s.store.talkPoints[tp.ID] = tp
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, tp)
}

func (s *Server) handleListTalkPoints(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	all := make([]model.TalkPoint, 0, len(s.store.talkPoints))
	for _, tp := range s.store.talkPoints {
		all = append(all, *tp)
	}
	s.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetTalkPoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "talkPointID")
	s.store.mu.Lock()
	tp, ok := s.store.talkPoints[id]
	s.store.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Talk point with id %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, tp)
}

func (s *Server) handleDeleteTalkPoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "talkPointID")
	s.store.mu.Lock()
	_, ok := s.store.talkPoints[id]
	delete(s.store.talkPoints, id)
	s.store.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Talk point with id %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Talk point deleted"})
}

// ---- playbooks ----

func (s *Server) handleCreatePlaybook(w http.ResponseWriter, r *http.Request) {
	var body model.PlaybookCreate
	if err := decodeBody(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	pb := &model.Playbook{
		ID:            uuid.NewString(),
		UserID:        requestUserID(r),
		Title:         body.Title,
		Description:   body.Description,
		TargetPersona: body.TargetPersona,
		Industry:      body.Industry,
		ProductLine:   body.ProductLine,
		Status:        model.PlaybookDraft,
		Scenarios:     []model.Scenario{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.store.mu.Lock()
	s.store.playbooks[pb.ID] = pb
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, pb)
}

func (s *Server) handleListPlaybooks(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	uid := requestUserID(r)

	s.store.mu.Lock()
	var all []model.Playbook
	for _, pb := range s.store.playbooks {
		if pb.UserID == uid {
			all = append(all, *pb)
		}
	}
	s.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, model.PlaybookList{
		Playbooks: all[offset:end], Total: total, Limit: limit, Offset: offset,
	})
}

// ownedPlaybook mirrors ownedSession. Callers must hold the store lock.
func (s *Server) ownedPlaybook(w http.ResponseWriter, r *http.Request) *model.Playbook {
	id := chi.URLParam(r, "playbookID")
	pb, ok := s.store.playbooks[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Playbook with id %s not found", id))
		return nil
	}
	if pb.UserID != requestUserID(r) {
		writeError(w, http.StatusForbidden, "You don't have permission to access this playbook")
		return nil
	}
	return pb
}

func (s *Server) handleGetPlaybook(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if pb := s.ownedPlaybook(w, r); pb != nil {
		writeJSON(w, http.StatusOK, pb)
	}
}

func (s *Server) handleUpdatePlaybook(w http.ResponseWriter, r *http.Request) {
	var body model.PlaybookUpdate
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pb := s.ownedPlaybook(w, r)
	if pb == nil {
		return
	}
	if body.Title != "" {
		pb.Title = body.Title
	}
	if body.Description != "" {
		pb.Description = body.Description
	}
	if body.TargetPersona != "" {
		pb.TargetPersona = body.TargetPersona
	}
	if body.Industry != "" {
		pb.Industry = body.Industry
	}
	if body.ProductLine != "" {
		pb.ProductLine = body.ProductLine
	}
	if body.Status != "" {
		pb.Status = body.Status
	}
	pb.UpdatedAt = time.Now()
	writeJSON(w, http.StatusOK, pb)
}

func (s *Server) handleDeletePlaybook(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pb := s.ownedPlaybook(w, r)
	if pb == nil {
		return
	}
	delete(s.store.playbooks, pb.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playbook deleted"})
}

func (s *Server) handleAddScenario(w http.ResponseWriter, r *http.Request) {
	var body model.ScenarioCreate
	if err := decodeBody(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pb := s.ownedPlaybook(w, r)
	if pb == nil {
		return
	}

	sc := model.Scenario{
		ID:                 uuid.NewString(),
		Title:              body.Title,
		DealStage:          body.DealStage,
		MeetingContext:     body.MeetingContext,
		CustomerPainPoints: body.CustomerPainPoints,
		Competitors:        body.Competitors,
		Content: model.ContentSection{
			OpeningStrategy:    "Lead with the customer's stated pain and the cost of inaction.",
			KeyMessages:        []string{"Reduce time to value", "Lower operational risk"},
			ValuePropositions:  []string{"Faster onboarding than incumbents"},
			ProofPoints:        []string{"Case study: 40% cycle-time reduction"},
			DiscoveryQuestions: []string{"What does success look like in 90 days?"},
			ObjectionHandling:  []model.ObjectionResponse{},
			BattleCards:        []model.BattleCard{},
			NextSteps:          []string{"Schedule a technical deep dive"},
		},
	}
	pb.Scenarios = append(pb.Scenarios, sc)
	pb.UpdatedAt = time.Now()
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "scenarioID")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pb := s.ownedPlaybook(w, r)
	if pb == nil {
		return
	}
	for i, sc := range pb.Scenarios {
		if sc.ID == scenarioID {
			pb.Scenarios = append(pb.Scenarios[:i], pb.Scenarios[i+1:]...)
			pb.UpdatedAt = time.Now()
			writeJSON(w, http.StatusOK, map[string]string{"message": "Scenario deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Scenario with id %s not found", scenarioID))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
