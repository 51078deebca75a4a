package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/api"
	"prapp-client/internal/domain/ports/store"
	"prapp-client/internal/infra/logging"
)

// ProfileView merges locally persisted preferences with backend-derived
// history. Preferences are always populated (defaults at worst) so screens
// can render before any network call resolves; backend fields arrive
// best-effort.
type ProfileView struct {
	Preferences   model.Preferences
	User          *model.User
	Recent        []model.Session
	TotalSessions int
	Improvements  *model.ImprovementReport
	Activation    model.ActivationState

	// Degraded marks a local-only view after backend failures; Err holds
	// the first failure so the screen can offer a retry. Never fatal.
	Degraded bool
	Err      string
}

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

type ProfileUseCase interface {
	Load(ctx context.Context) ProfileView
	SavePreferences(ctx context.Context, prefs model.Preferences) error
}

type profileUC struct {
	prefs     store.PreferenceStore
	auth      api.AuthAPI
	sessions  api.SessionAPI
	analytics api.AnalyticsAPI

	log *zerolog.Logger
}

func NewProfileUseCase(prefs store.PreferenceStore, auth api.AuthAPI, sessions api.SessionAPI, analytics api.AnalyticsAPI, logger *zerolog.Logger) *profileUC {
	return &profileUC{prefs: prefs, auth: auth, sessions: sessions, analytics: analytics, log: logger}
}

// recentSessionCount is how many sessions the profile screen previews; the
// list call's total still covers the full history.
const recentSessionCount = 5

func (p *profileUC) Load(ctx context.Context) ProfileView {
	defer logging.TraceDuration(p.log, "Profile.Load")()

	view := ProfileView{Activation: model.ActivationNew}

	// Local first. A broken store degrades to defaults, never to an error
	// screen.
	prefs, err := p.prefs.Load(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("preference load failed, using defaults")
		prefs = model.DefaultPreferences()
	}
	view.Preferences = prefs

	degrade := func(err error) {
		view.Degraded = true
		if view.Err == "" {
			view.Err = err.Error()
		}
	}

	if user, err := p.auth.Profile(ctx); err != nil {
		p.log.Warn().Err(err).Msg("profile fetch failed")
		degrade(err)
	} else {
		view.User = user
		ctx = logging.WithUserID(ctx, user.ID)
	}

	if list, err := p.sessions.List(ctx, api.ListOptions{Limit: recentSessionCount}); err != nil {
		p.log.Warn().Err(err).Msg("session history fetch failed")
		degrade(err)
	} else {
		view.Recent = list.Sessions
		view.TotalSessions = list.Total
		// Activation reflects server truth only: one backend-visible
		// session makes the user activated, regardless of anything local.
		if list.Total > 0 {
			view.Activation = model.ActivationActivated
		}
	}

	if report, err := p.analytics.Improvements(ctx); err != nil {
		p.log.Warn().Err(err).Msg("improvements fetch failed")
		degrade(err)
	} else {
		view.Improvements = report
	}

	return view
}

func (p *profileUC) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return p.prefs.Save(ctx, prefs)
}
