// File: internal/usecase/session_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"prapp-client/internal/domain"
	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
	"prapp-client/internal/infra/logging"
	"prapp-client/internal/infra/metrics"
)

// SessionState is the controller's own status, distinct from the backend
// session status. Transitions:
//
//	loading -> {active, completed, error}
//	active -> {completing, error}
//	completing -> {completed, active(on failure)}
//
// error is terminal for the current attempt; recovery is another Load.
type SessionState string

const (
	StateLoading    SessionState = "loading"
	StateActive     SessionState = "active"
	StateCompleting SessionState = "completing"
	StateCompleted  SessionState = "completed"
	StateError      SessionState = "error"
)

// MinCompletionExchanges is the product policy gating completion: a session
// needs this many user+ai exchange pairs before Complete is allowed. It is
// a UX gate enforced client-side; the backend checks it independently.
const MinCompletionExchanges = 3

const minCompletionMessages = MinCompletionExchanges * 2

// SessionSnapshot is a consistent read of controller state. Slices, maps and
// the session record are copies; mutating them does not affect the controller.
type SessionSnapshot struct {
	State          SessionState
	Session        *model.Session
	Messages       []model.ChatMessage
	Evaluation     *model.SessionEvaluation
	Err            string
	ElapsedSeconds int
	SendInFlight   bool
}

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

type SessionUseCase interface {
	// Start creates a fresh session and adopts it; returns the new id.
	Start(ctx context.Context, req model.SessionCreate) (string, error)
	// Load fetches an existing session and, when it is completed, its
	// evaluation (a missing evaluation is tolerated).
	Load(ctx context.Context, sessionID string) error
	SendMessage(ctx context.Context, sessionID, text string) error
	Complete(ctx context.Context, sessionID string) error
	// Clear resets everything; in-flight responses that arrive later are
	// discarded.
	Clear()
	Snapshot() SessionSnapshot
}

// trackedMessage tags transcript entries with the send call that inserted
// them optimistically, so a failing call rolls back exactly its own entry.
type trackedMessage struct {
	model.ChatMessage
	callID string // empty once server-confirmed
}

type sessionUC struct {
	api  api.SessionAPI
	log  *zerolog.Logger
	tick time.Duration
	now  func() time.Time

	mu         sync.Mutex
	gen        uint64 // bumped on every reset; in-flight work compares before writing
	state      SessionState
	session    *model.Session
	messages   []trackedMessage
	evaluation *model.SessionEvaluation
	errMsg     string
	sending    bool
	elapsed    int
	stopTimer  context.CancelFunc
}

// Option tweaks controller behavior; used by tests to compress the timer.
type Option func(*sessionUC)

func WithTickInterval(d time.Duration) Option {
	return func(c *sessionUC) {
		if d > 0 {
			c.tick = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *sessionUC) {
		if now != nil {
			c.now = now
		}
	}
}

func NewSessionUseCase(sessions api.SessionAPI, logger *zerolog.Logger, opts ...Option) *sessionUC {
	c := &sessionUC{
		api:   sessions,
		log:   logger,
		tick:  time.Second,
		now:   time.Now,
		state: StateLoading,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *sessionUC) Start(ctx context.Context, req model.SessionCreate) (string, error) {
	c.mu.Lock()
	c.resetLocked()
	c.setStateLocked(StateLoading)
	gen := c.gen
	c.mu.Unlock()

	s, err := c.api.Create(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return "", nil
	}
	if err != nil {
		c.errMsg = err.Error()
		c.setStateLocked(StateError)
		return "", err
	}
	c.adoptLocked(s, nil)
	return s.ID, nil
}

func (c *sessionUC) Load(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidArgument)
	}

	c.mu.Lock()
	c.resetLocked()
	c.setStateLocked(StateLoading)
	gen := c.gen
	c.mu.Unlock()

	s, err := c.api.Get(ctx, sessionID)

	// For completed sessions, try the evaluation too. Absence is not
	// fatal: the session still lands in completed with no evaluation.
	var eval *model.SessionEvaluation
	if err == nil && s.Status == model.SessionCompleted {
		var evalErr error
		eval, evalErr = c.api.GetEvaluation(ctx, sessionID)
		if evalErr != nil {
			eval = nil
			c.log.Debug().Err(evalErr).Str("session_id", sessionID).Msg("no evaluation for completed session")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	if err != nil {
		c.errMsg = err.Error()
		c.setStateLocked(StateError)
		return err
	}
	c.adoptLocked(s, eval)
	return nil
}

// adoptLocked installs a fetched session and moves to the matching state.
func (c *sessionUC) adoptLocked(s *model.Session, eval *model.SessionEvaluation) {
	c.session = s
	c.messages = make([]trackedMessage, 0, len(s.Transcript)+8)
	for _, m := range s.Transcript {
		c.messages = append(c.messages, trackedMessage{ChatMessage: m})
	}
	c.evaluation = eval

	if s.Status == model.SessionCompleted {
		c.setStateLocked(StateCompleted)
		return
	}
	c.setStateLocked(StateActive)
	c.startTimerLocked()
}

func (c *sessionUC) SendMessage(ctx context.Context, sessionID, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return domain.ErrSessionNotActive
	}
	if text == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: empty message", domain.ErrInvalidArgument)
	}
	if c.sending {
		// Re-entrant sends are rejected, not queued; this is what keeps
		// transcript order equal to user intent order.
		c.mu.Unlock()
		return domain.ErrSendInFlight
	}

	callID := uuid.NewString()
	// Optimistic insert: the user sees their message before the network
	// round trip confirms it.
	c.messages = append(c.messages, trackedMessage{
		ChatMessage: model.ChatMessage{Role: "user", Message: text, Timestamp: c.now()},
		callID:      callID,
	})
	c.sending = true
	gen := c.gen
	c.mu.Unlock()

	ctx = logging.WithCallID(logging.WithSessID(ctx, sessionID), callID)
	res, err := c.api.SendMessage(ctx, sessionID, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Cleared while the send was in flight; nothing left to reconcile.
		return nil
	}
	c.sending = false
	if err != nil {
		c.rollbackLocked(callID)
		metrics.IncRollback()
		c.errMsg = err.Error()
		return err
	}

	c.confirmLocked(callID)
	// The send contract returns only text and a turn number; the AI
	// message is stamped client-side like the user one.
	c.messages = append(c.messages, trackedMessage{
		ChatMessage: model.ChatMessage{Role: "ai", Message: res.AIResponse, Timestamp: c.now()},
	})
	c.errMsg = ""
	return nil
}

// rollbackLocked removes the entry tagged by callID, scanning from the
// tail. With the in-flight guard this is the last element, but matching by
// tag keeps rollback correct rather than coincidental.
func (c *sessionUC) rollbackLocked(callID string) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].callID == callID {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

func (c *sessionUC) confirmLocked(callID string) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].callID == callID {
			c.messages[i].callID = ""
			return
		}
	}
}

func (c *sessionUC) Complete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return domain.ErrSessionNotActive
	}
	if c.sending {
		// An in-flight send means the tail of c.messages is unconfirmed,
		// so the exchange count below would be a guess. Finish the send
		// first.
		c.mu.Unlock()
		return domain.ErrSendInFlight
	}
	if len(c.messages) < minCompletionMessages {
		n := len(c.messages)
		err := fmt.Errorf("%w: have %d of %d messages", domain.ErrTooFewExchanges, n, minCompletionMessages)
		c.errMsg = err.Error()
		metrics.IncGateReject()
		c.mu.Unlock()
		return err
	}
	c.setStateLocked(StateCompleting)
	gen := c.gen
	c.mu.Unlock()

	ctx = logging.WithSessID(ctx, sessionID)
	completed, err := c.api.Complete(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrAlreadyCompleted) {
		return c.revertCompletion(gen, err)
	}

	eval, err := c.api.Evaluate(ctx, sessionID, false)
	if err != nil {
		// Completion may have landed server-side, but the client never
		// claims completed without the evaluation step succeeding. A
		// retry re-enters here and the already-completed rejection above
		// short-circuits to evaluation.
		return c.revertCompletion(gen, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	if completed != nil {
		c.session = completed
	} else if c.session != nil {
		c.session.Status = model.SessionCompleted
	}
	c.evaluation = eval
	c.errMsg = ""
	c.setStateLocked(StateCompleted)
	c.stopTimerLocked()
	return nil
}

func (c *sessionUC) revertCompletion(gen uint64, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.errMsg = cause.Error()
	c.setStateLocked(StateActive)
	return cause
}

func (c *sessionUC) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.setStateLocked(StateLoading)
}

func (c *sessionUC) Snapshot() SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := SessionSnapshot{
		State:          c.state,
		Err:            c.errMsg,
		ElapsedSeconds: c.elapsed,
		SendInFlight:   c.sending,
	}
	if c.session != nil {
		s := *c.session
		s.Transcript = append([]model.ChatMessage(nil), c.session.Transcript...)
		s.ContextPayload = maps.Clone(c.session.ContextPayload)
		snap.Session = &s
	}
	snap.Messages = make([]model.ChatMessage, len(c.messages))
	for i, m := range c.messages {
		snap.Messages[i] = m.ChatMessage
	}
	if c.evaluation != nil {
		e := *c.evaluation
		e.ContextScores = maps.Clone(c.evaluation.ContextScores)
		e.ImprovementAreas = append([]model.ImprovementArea(nil), c.evaluation.ImprovementAreas...)
		e.PracticeSuggestions = append([]string(nil), c.evaluation.PracticeSuggestions...)
		e.Strengths = append([]string(nil), c.evaluation.Strengths...)
		snap.Evaluation = &e
	}
	return snap
}

// resetLocked invalidates all in-flight work and zeroes controller state.
func (c *sessionUC) resetLocked() {
	c.gen++
	c.stopTimerLocked()
	c.session = nil
	c.messages = nil
	c.evaluation = nil
	c.errMsg = ""
	c.sending = false
	c.elapsed = 0
}

func (c *sessionUC) setStateLocked(s SessionState) {
	if c.state == s {
		return
	}
	c.state = s
	metrics.IncTransition(string(s))
	c.log.Debug().Str("state", string(s)).Msg("session controller transition")
}

// startTimerLocked runs the elapsed counter: one increment per tick, only
// while the controller stays active for the same generation.
func (c *sessionUC) startTimerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopTimer = cancel
	gen := c.gen
	go func() {
		t := time.NewTicker(c.tick)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.mu.Lock()
				if c.gen == gen && c.state == StateActive {
					c.elapsed++
				}
				c.mu.Unlock()
			}
		}
	}()
}

func (c *sessionUC) stopTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}
