package stub

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"prapp-client/internal/domain/model"
)

// cannedReplies cycles as the AI side of a stub conversation.
var cannedReplies = []string{
	"Tell me about a recent project you are proud of.",
	"Interesting. What was the hardest decision you had to make there?",
	"How did you measure whether that was the right call?",
	"Can you give a concrete example with numbers?",
	"What would you do differently if you started over?",
	"Let's switch gears - how do you handle pushback from stakeholders?",
}

const minTurnMessages = 6 // 3 user+ai exchanges

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PreparationType model.PreparationType `json:"preparation_type"`
		MeetingSubtype  string                `json:"meeting_subtype"`
		Agenda          string                `json:"agenda"`
		Tone            string                `json:"tone"`
		RoleContext     string                `json:"role_context"`
	}
	if err := decodeBody(r, &body); err != nil || body.PreparationType == "" {
		writeError(w, http.StatusBadRequest, "preparation_type is required")
		return
	}

	sess := model.NewSession(uuid.NewString(), requestUserID(r), body.PreparationType, body.MeetingSubtype, map[string]any{
		"agenda":       body.Agenda,
		"tone":         body.Tone,
		"role_context": body.RoleContext,
	})

	s.store.mu.Lock()
	s.store.sessions[sess.ID] = sess
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)
	status := model.SessionStatus(r.URL.Query().Get("status_filter"))

	s.store.mu.Lock()
	all := s.store.sessionsOf(requestUserID(r), status)
	s.store.mu.Unlock()

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*model.Session, 0, end-offset)
	page = append(page, all[offset:end]...)
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": page, "total": total, "limit": limit, "offset": offset,
	})
}

// ownedSession looks up a session and enforces ownership; writes the error
// response itself when the lookup fails. Callers must hold the store lock.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) *model.Session {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.store.sessions[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Session with id %s not found", id))
		return nil
	}
	if sess.UserID != requestUserID(r) {
		writeError(w, http.StatusForbidden, "You don't have permission to access this session")
		return nil
	}
	return sess
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if sess := s.ownedSession(w, r); sess != nil {
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status model.SessionStatus `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.ownedSession(w, r)
	if sess == nil {
		return
	}
	sess.Status = body.Status
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil || body.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.ownedSession(w, r)
	if sess == nil {
		return
	}
	if sess.Status != model.SessionInProgress {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Session is %s, not in_progress. Cannot send messages.", sess.Status))
		return
	}

	sess.AddMessage("user", body.Message)
	reply := cannedReplies[(len(sess.Transcript)/2)%len(cannedReplies)]
	sess.AddMessage("ai", reply)

	writeJSON(w, http.StatusOK, map[string]any{
		"ai_response": reply,
		"turn_number": len(sess.Transcript) / 2,
	})
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.ownedSession(w, r)
	if sess == nil {
		return
	}
	if sess.Status != model.SessionInProgress {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Session is already %s", sess.Status))
		return
	}
	if len(sess.Transcript) < minTurnMessages {
		writeError(w, http.StatusBadRequest,
			"Session must have at least 3 conversation turns before completion")
		return
	}

	now := time.Now()
	sess.Status = model.SessionCompleted
	sess.CompletedAt = &now

	// First completed session flips activation.
	if u, ok := s.store.usersByID[sess.UserID]; ok && u.ActivationState == model.ActivationNew {
		u.ActivationState = model.ActivationActivated
	}

	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEvaluateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ForceReevaluate bool `json:"force_reevaluate"`
	}
	_ = decodeBody(r, &body) // an empty body means no force

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.ownedSession(w, r)
	if sess == nil {
		return
	}
	if sess.Status != model.SessionCompleted {
		writeError(w, http.StatusBadRequest, "Session must be completed before evaluation")
		return
	}

	if existing, ok := s.store.evaluations[sess.ID]; ok && !body.ForceReevaluate {
		writeJSON(w, http.StatusOK, existing)
		return
	}

	eval := synthesizeEvaluation(sess)
	s.store.evaluations[sess.ID] = eval
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sess := s.ownedSession(w, r)
	if sess == nil {
		return
	}
	eval, ok := s.store.evaluations[sess.ID]
	if !ok {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("No evaluation found for session %s. Please evaluate the session first.", sess.ID))
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// synthesizeEvaluation fabricates a plausible, deterministic evaluation
// from transcript length so repeated runs are stable.
func synthesizeEvaluation(sess *model.Session) *model.SessionEvaluation {
	base := 60 + (len(sess.Transcript)*3)%30
	scores := model.EvaluationScores{
		ClarityStructure:   base,
		RelevanceFocus:     base + 5,
		ConfidenceDelivery: base - 5,
		LanguageQuality:    base + 2,
		ToneAlignment:      base,
		Engagement:         base + 3,
	}
	overall := (scores.ClarityStructure + scores.RelevanceFocus + scores.ConfidenceDelivery +
		scores.LanguageQuality + scores.ToneAlignment + scores.Engagement) / 6

	return &model.SessionEvaluation{
		ID:              uuid.NewString(),
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		UniversalScores: scores,
		ImprovementAreas: []model.ImprovementArea{{
			Dimension:    "Confidence & Delivery",
			CurrentLevel: "solid",
			Suggestion:   "Pause briefly before answering complex questions to organize your thoughts",
			Priority:     "high",
		}},
		PracticeSuggestions: []string{
			"Practice quantifying your impact with numbers",
			"Take 2-3 seconds to organize thoughts before responding",
		},
		Strengths: []string{
			"Clear problem definition and context setting",
			"Professional and consistent tone",
		},
		OverallScore: overall,
		Summary:      "Solid performance with clear communication. Focus on adding specific metrics to your examples.",
		CreatedAt:    time.Now(),
	}
}
