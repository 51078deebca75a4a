// File: internal/usecase/session_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"prapp-client/internal/domain"
	"prapp-client/internal/domain/model"
	"prapp-client/internal/usecase"
)

func TestSessionLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("should adopt an in-progress session and start the timer", func(t *testing.T) {
		mock := &mockSessionAPI{}
		uc := newActiveController(t, mock, "sess-1", 4, usecase.WithTickInterval(time.Millisecond))

		snap := uc.Snapshot()
		if snap.State != usecase.StateActive {
			t.Fatalf("expected active state, got %s", snap.State)
		}
		if len(snap.Messages) != 4 {
			t.Fatalf("expected 4 messages, got %d", len(snap.Messages))
		}

		// Elapsed time ticks while active.
		deadline := time.Now().Add(2 * time.Second)
		for uc.Snapshot().ElapsedSeconds == 0 {
			if time.Now().After(deadline) {
				t.Fatal("elapsed counter never incremented")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("should adopt a completed session together with its evaluation", func(t *testing.T) {
		sess := inProgressSession("sess-2", 6)
		sess.Status = model.SessionCompleted
		mock := &mockSessionAPI{
			GetFunc: func(ctx context.Context, id string) (*model.Session, error) { return sess, nil },
			GetEvaluationFunc: func(ctx context.Context, id string) (*model.SessionEvaluation, error) {
				return &model.SessionEvaluation{SessionID: id, OverallScore: 72}, nil
			},
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger())
		if err := uc.Load(ctx, "sess-2"); err != nil {
			t.Fatalf("load: %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateCompleted {
			t.Fatalf("expected completed state, got %s", snap.State)
		}
		if snap.Evaluation == nil || snap.Evaluation.OverallScore != 72 {
			t.Fatal("expected evaluation to be adopted")
		}
	})

	t.Run("should tolerate a missing evaluation on a completed session", func(t *testing.T) {
		sess := inProgressSession("sess-3", 6)
		sess.Status = model.SessionCompleted
		mock := &mockSessionAPI{
			GetFunc: func(ctx context.Context, id string) (*model.Session, error) { return sess, nil },
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger())
		if err := uc.Load(ctx, "sess-3"); err != nil {
			t.Fatalf("load: %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateCompleted {
			t.Fatalf("expected completed state, got %s", snap.State)
		}
		if snap.Evaluation != nil {
			t.Fatal("expected no evaluation")
		}
	})

	t.Run("should move to error state when the fetch fails", func(t *testing.T) {
		mock := &mockSessionAPI{
			GetFunc: func(ctx context.Context, id string) (*model.Session, error) {
				return nil, errors.New("backend unreachable")
			},
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger())
		if err := uc.Load(ctx, "sess-4"); err == nil {
			t.Fatal("expected error")
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateError {
			t.Fatalf("expected error state, got %s", snap.State)
		}
		if snap.Err == "" {
			t.Fatal("expected error message in snapshot")
		}
	})

	t.Run("should reject an empty session id", func(t *testing.T) {
		uc := usecase.NewSessionUseCase(&mockSessionAPI{}, newTestLogger())
		if err := uc.Load(ctx, "  "); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})

	t.Run("should be idempotent for the same session id", func(t *testing.T) {
		mock := &mockSessionAPI{}
		uc := newActiveController(t, mock, "sess-5", 4)
		if err := uc.Load(ctx, "sess-5"); err != nil {
			t.Fatalf("second load: %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateActive || len(snap.Messages) != 4 {
			t.Fatalf("second load changed state: %s, %d messages", snap.State, len(snap.Messages))
		}
	})
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should append a user and an ai message in order", func(t *testing.T) {
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				return &model.SendMessageResult{AIResponse: "Sure, let's start with your background.", TurnNumber: 4}, nil
			},
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.SendMessage(ctx, "sess-1", "I led the migration project"); err != nil {
			t.Fatalf("send: %v", err)
		}

		snap := uc.Snapshot()
		if len(snap.Messages) != 8 {
			t.Fatalf("expected 8 messages, got %d", len(snap.Messages))
		}
		if snap.Messages[6].Role != "user" || snap.Messages[6].Message != "I led the migration project" {
			t.Errorf("unexpected user entry: %+v", snap.Messages[6])
		}
		if snap.Messages[7].Role != "ai" || snap.Messages[7].Message != "Sure, let's start with your background." {
			t.Errorf("unexpected ai entry: %+v", snap.Messages[7])
		}
		if snap.Err != "" {
			t.Errorf("expected no error, got %q", snap.Err)
		}
	})

	t.Run("should roll back the optimistic insert when the call fails", func(t *testing.T) {
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				return nil, errors.New("request failed with status 500: internal error")
			},
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.SendMessage(ctx, "sess-1", "hello"); err == nil {
			t.Fatal("expected error")
		}

		snap := uc.Snapshot()
		if len(snap.Messages) != 6 {
			t.Fatalf("expected rollback to 6 messages, got %d", len(snap.Messages))
		}
		if snap.State != usecase.StateActive {
			t.Fatalf("expected session to stay active, got %s", snap.State)
		}
		if snap.Err == "" {
			t.Fatal("expected error message in snapshot")
		}
	})

	t.Run("should reject a second send while one is in flight", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				close(started)
				<-release
				return &model.SendMessageResult{AIResponse: "ok"}, nil
			},
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		firstDone := make(chan error, 1)
		go func() { firstDone <- uc.SendMessage(ctx, "sess-1", "first") }()
		<-started

		if err := uc.SendMessage(ctx, "sess-1", "second"); !errors.Is(err, domain.ErrSendInFlight) {
			t.Fatalf("expected in-flight rejection, got %v", err)
		}

		close(release)
		if err := <-firstDone; err != nil {
			t.Fatalf("first send: %v", err)
		}

		// Only the first send landed: 6 + user + ai.
		snap := uc.Snapshot()
		if len(snap.Messages) != 8 {
			t.Fatalf("expected 8 messages, got %d", len(snap.Messages))
		}
	})

	t.Run("should reject empty and whitespace-only messages", func(t *testing.T) {
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				t.Fatal("backend must not be called for an empty message")
				return nil, nil
			},
		}
		uc := newActiveController(t, mock, "sess-1", 2)

		if err := uc.SendMessage(ctx, "sess-1", "   "); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})

	t.Run("should reject sends outside the active state", func(t *testing.T) {
		uc := usecase.NewSessionUseCase(&mockSessionAPI{}, newTestLogger())
		if err := uc.SendMessage(ctx, "sess-1", "hello"); !errors.Is(err, domain.ErrSessionNotActive) {
			t.Fatalf("expected not-active rejection, got %v", err)
		}
	})

	t.Run("should discard the response of a send that outlives Clear", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				close(started)
				<-release
				return &model.SendMessageResult{AIResponse: "stale"}, nil
			},
		}
		uc := newActiveController(t, mock, "sess-1", 2)

		done := make(chan error, 1)
		go func() { done <- uc.SendMessage(ctx, "sess-1", "hello") }()
		<-started

		uc.Clear()
		close(release)
		if err := <-done; err != nil {
			t.Fatalf("cleared send should not surface an error, got %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateLoading {
			t.Fatalf("expected loading after clear, got %s", snap.State)
		}
		if len(snap.Messages) != 0 {
			t.Fatalf("stale response leaked into cleared state: %d messages", len(snap.Messages))
		}
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	evalOK := func(ctx context.Context, id string, force bool) (*model.SessionEvaluation, error) {
		return &model.SessionEvaluation{SessionID: id, OverallScore: 80}, nil
	}

	t.Run("should complete and adopt the evaluation", func(t *testing.T) {
		mock := &mockSessionAPI{
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				s := inProgressSession(id, 6)
				s.Status = model.SessionCompleted
				return s, nil
			},
			EvaluateFunc: evalOK,
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.Complete(ctx, "sess-1"); err != nil {
			t.Fatalf("complete: %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateCompleted {
			t.Fatalf("expected completed, got %s", snap.State)
		}
		if snap.Evaluation == nil || snap.Evaluation.OverallScore != 80 {
			t.Fatal("expected evaluation to be adopted")
		}
		if snap.Err != "" {
			t.Errorf("expected no error, got %q", snap.Err)
		}
	})

	t.Run("should reject completion below the exchange threshold without a network call", func(t *testing.T) {
		mock := &mockSessionAPI{
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				t.Fatal("backend must not be called below the threshold")
				return nil, nil
			},
		}
		uc := newActiveController(t, mock, "sess-1", 5)

		if err := uc.Complete(ctx, "sess-1"); !errors.Is(err, domain.ErrTooFewExchanges) {
			t.Fatalf("expected threshold rejection, got %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateActive {
			t.Fatalf("expected session to stay active, got %s", snap.State)
		}
		if snap.Err == "" {
			t.Fatal("expected error message in snapshot")
		}
	})

	t.Run("should reject completion while a send is in flight", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		mock := &mockSessionAPI{
			SendMessageFunc: func(ctx context.Context, id, msg string) (*model.SendMessageResult, error) {
				close(started)
				<-release
				return &model.SendMessageResult{AIResponse: "ok"}, nil
			},
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				t.Error("backend must not be called while a send is in flight")
				return nil, errors.New("unexpected")
			},
		}
		// Five confirmed messages plus the unconfirmed optimistic one:
		// the exchange count alone would let completion through.
		uc := newActiveController(t, mock, "sess-1", 5)

		done := make(chan error, 1)
		go func() { done <- uc.SendMessage(ctx, "sess-1", "hello") }()
		<-started

		if err := uc.Complete(ctx, "sess-1"); !errors.Is(err, domain.ErrSendInFlight) {
			t.Fatalf("expected in-flight rejection, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Fatalf("send: %v", err)
		}
		if snap := uc.Snapshot(); snap.State != usecase.StateActive {
			t.Fatalf("expected session to stay active, got %s", snap.State)
		}
	})

	t.Run("should return to active when the completion call fails", func(t *testing.T) {
		mock := &mockSessionAPI{
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				return nil, errors.New("request failed with status 500: internal error")
			},
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.Complete(ctx, "sess-1"); err == nil {
			t.Fatal("expected error")
		}
		if snap := uc.Snapshot(); snap.State != usecase.StateActive || snap.Err == "" {
			t.Fatalf("expected active with error, got %s %q", snap.State, snap.Err)
		}
	})

	t.Run("should return to active when evaluation fails after completion landed", func(t *testing.T) {
		mock := &mockSessionAPI{
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				s := inProgressSession(id, 6)
				s.Status = model.SessionCompleted
				return s, nil
			},
			EvaluateFunc: func(ctx context.Context, id string, force bool) (*model.SessionEvaluation, error) {
				return nil, errors.New("request failed with status 503: evaluation unavailable")
			},
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.Complete(ctx, "sess-1"); err == nil {
			t.Fatal("expected error")
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateActive {
			t.Fatalf("expected active for retry, got %s", snap.State)
		}
		if snap.Evaluation != nil {
			t.Fatal("completed must never be claimed without an evaluation")
		}
	})

	t.Run("should treat an already-completed rejection as success and evaluate", func(t *testing.T) {
		mock := &mockSessionAPI{
			CompleteFunc: func(ctx context.Context, id string) (*model.Session, error) {
				return nil, fmt.Errorf("%w: Session is already completed", domain.ErrAlreadyCompleted)
			},
			EvaluateFunc: evalOK,
		}
		uc := newActiveController(t, mock, "sess-1", 6)

		if err := uc.Complete(ctx, "sess-1"); err != nil {
			t.Fatalf("complete: %v", err)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateCompleted {
			t.Fatalf("expected completed, got %s", snap.State)
		}
		if snap.Session == nil || snap.Session.Status != model.SessionCompleted {
			t.Fatal("expected local session record to be marked completed")
		}
	})
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("should create and adopt a fresh session", func(t *testing.T) {
		mock := &mockSessionAPI{
			CreateFunc: func(ctx context.Context, req model.SessionCreate) (*model.Session, error) {
				return model.NewSession("sess-new", "user-1", req.PreparationType, req.MeetingSubtype, nil), nil
			},
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger(), usecase.WithTickInterval(time.Hour))

		id, err := uc.Start(ctx, model.SessionCreate{PreparationType: model.PrepPitch})
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if id != "sess-new" {
			t.Fatalf("unexpected id %q", id)
		}

		snap := uc.Snapshot()
		if snap.State != usecase.StateActive || len(snap.Messages) != 0 {
			t.Fatalf("expected empty active session, got %s with %d messages", snap.State, len(snap.Messages))
		}
	})

	t.Run("should surface a create failure as an error state", func(t *testing.T) {
		mock := &mockSessionAPI{
			CreateFunc: func(ctx context.Context, req model.SessionCreate) (*model.Session, error) {
				return nil, errors.New("backend unreachable: connection refused")
			},
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger())

		if _, err := uc.Start(ctx, model.SessionCreate{PreparationType: model.PrepInterview}); err == nil {
			t.Fatal("expected error")
		}
		if snap := uc.Snapshot(); snap.State != usecase.StateError {
			t.Fatalf("expected error state, got %s", snap.State)
		}
	})
}

func TestSnapshotIsolation(t *testing.T) {
	t.Run("should not share messages or the session record", func(t *testing.T) {
		mock := &mockSessionAPI{}
		uc := newActiveController(t, mock, "sess-1", 2)

		snap := uc.Snapshot()
		snap.Messages[0].Message = "mutated"
		snap.Session.Status = model.SessionArchived

		fresh := uc.Snapshot()
		if fresh.Messages[0].Message == "mutated" {
			t.Fatal("snapshot shares message backing array with controller")
		}
		if fresh.Session.Status == model.SessionArchived {
			t.Fatal("snapshot shares session record with controller")
		}
	})

	t.Run("should not share the context payload or evaluation fields", func(t *testing.T) {
		sess := model.NewSession("sess-1", "user-1", model.PrepSales, "", map[string]any{"customer_name": "Acme"})
		for i := 0; i < 6; i++ {
			role := "user"
			if i%2 == 1 {
				role = "ai"
			}
			sess.AddMessage(role, "message")
		}
		sess.Status = model.SessionCompleted
		mock := &mockSessionAPI{
			GetFunc: func(ctx context.Context, id string) (*model.Session, error) {
				return sess, nil
			},
			GetEvaluationFunc: func(ctx context.Context, id string) (*model.SessionEvaluation, error) {
				return &model.SessionEvaluation{
					SessionID:     id,
					OverallScore:  75,
					ContextScores: map[string]int{"product_knowledge": 70},
					Strengths:     []string{"clear openers"},
				}, nil
			},
		}
		uc := usecase.NewSessionUseCase(mock, newTestLogger())
		if err := uc.Load(context.Background(), "sess-1"); err != nil {
			t.Fatalf("load: %v", err)
		}

		snap := uc.Snapshot()
		snap.Session.ContextPayload["customer_name"] = "mutated"
		snap.Evaluation.ContextScores["product_knowledge"] = 0
		snap.Evaluation.Strengths[0] = "mutated"

		fresh := uc.Snapshot()
		if fresh.Session.ContextPayload["customer_name"] != "Acme" {
			t.Fatal("snapshot shares the context payload map with controller")
		}
		if fresh.Evaluation.ContextScores["product_knowledge"] != 70 {
			t.Fatal("snapshot shares the context scores map with controller")
		}
		if fresh.Evaluation.Strengths[0] != "clear openers" {
			t.Fatal("snapshot shares evaluation slices with controller")
		}
	})
}
