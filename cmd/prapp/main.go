// File: cmd/prapp/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"prapp-client/internal/config"
	"prapp-client/internal/domain/model"
	"prapp-client/internal/infra/admin"
	"prapp-client/internal/infra/logging"
	"prapp-client/internal/infra/prefs"
	"prapp-client/internal/infra/rest"
	"prapp-client/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose output)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Local preference store ----
	store, err := prefs.NewSQLite(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("preference store: %v", err)
	}
	defer store.Close()

	// ---- Token source: config/env override wins, else local store ----
	var tokens rest.TokenSource
	if cfg.API.Token != "" {
		tokens = rest.StaticToken(cfg.API.Token)
	} else {
		tokens = rest.TokenFunc(store.Token)
	}
	if tok, err := tokens.Token(ctx); err == nil && tok != "" && rest.TokenExpired(tok, time.Now()) {
		logger.Warn().Msg("stored auth token is expired; authenticated calls will fail until re-login")
	}

	// ---- API clients ----
	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout, tokens, logger)
	sessionAPI := rest.NewSessionClient(client)
	authAPI := rest.NewAuthClient(client)
	analyticsAPI := rest.NewAnalyticsClient(client)

	// ---- Use cases ----
	sessionUC := usecase.NewSessionUseCase(sessionAPI, logger)
	profileUC := usecase.NewProfileUseCase(store, authAPI, sessionAPI, analyticsAPI, logger)
	historyUC := usecase.NewHistoryUseCase(sessionAPI)

	// ---- Debug listener (metrics + health) ----
	var debugSrv *admin.Server
	if cfg.Debug.Addr != "" {
		debugSrv = admin.NewServer(cfg.Debug.Addr, logger)
		go func() {
			if err := debugSrv.Start(); err != nil {
				logger.Warn().Err(err).Msg("debug listener stopped")
			}
		}()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info().Msg("shutdown requested")
		cancel()
		if debugSrv != nil {
			_ = debugSrv.Shutdown(context.Background())
		}
		os.Exit(0)
	}()

	repl(ctx, cfg, store, authAPI, sessionUC, profileUC, historyUC)
}

const replHelp = `commands:
  /signup <email> <password> [name]   create an account
  /login <email> <password>           sign in; the token is stored locally
  /new [type]      start a practice session (Interview|Corporate|Pitch|Sales|Presentation|Other)
  /load <id>       resume an existing session
  /complete        finish the session and request an evaluation
  /history [page]  list past sessions
  /profile         show profile, preferences and improvement focus
  /clear           drop the current session from the screen
  /quit            exit
anything else is sent as a message to the active session`

func repl(ctx context.Context, cfg *config.Config, store *prefs.SQLiteStore, auth *rest.AuthClient, sessions usecase.SessionUseCase, profile usecase.ProfileUseCase, history usecase.HistoryUseCase) {
	fmt.Println("prapp - practice conversations")
	fmt.Println(replHelp)

	var activeID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return

		case line == "/help":
			fmt.Println(replHelp)

		case strings.HasPrefix(line, "/signup "), strings.HasPrefix(line, "/login "):
			fields := strings.Fields(line)
			if len(fields) < 3 {
				fmt.Println("usage:", fields[0], "<email> <password>")
				continue
			}
			creds := model.Credentials{Email: fields[1], Password: fields[2]}
			var tok *model.AuthToken
			var err error
			if fields[0] == "/signup" {
				if len(fields) > 3 {
					creds.Name = strings.Join(fields[3:], " ")
				}
				tok, err = auth.Signup(ctx, creds)
			} else {
				tok, err = auth.Login(ctx, creds)
			}
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := store.SetToken(ctx, tok.Token); err != nil {
				fmt.Println("error: token not persisted:", err)
				continue
			}
			fmt.Println("signed in as", tok.Email)

		case strings.HasPrefix(line, "/new"):
			prep := model.PreparationType(cfg.Session.DefaultPreparationType)
			if arg := strings.TrimSpace(strings.TrimPrefix(line, "/new")); arg != "" {
				prep = model.PreparationType(arg)
			}
			id, err := sessions.Start(ctx, model.SessionCreate{
				PreparationType: prep,
				Tone:            cfg.Session.DefaultTone,
			})
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			activeID = id
			fmt.Println("session started:", id)

		case strings.HasPrefix(line, "/load "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/load "))
			if err := sessions.Load(ctx, id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			activeID = id
			printSnapshot(sessions.Snapshot())

		case line == "/complete":
			if activeID == "" {
				fmt.Println("no active session")
				continue
			}
			if err := sessions.Complete(ctx, activeID); err != nil {
				fmt.Println("error:", err)
			}
			printSnapshot(sessions.Snapshot())

		case line == "/clear":
			sessions.Clear()
			activeID = ""
			fmt.Println("cleared")

		case strings.HasPrefix(line, "/history"):
			page := 0
			if arg := strings.TrimSpace(strings.TrimPrefix(line, "/history")); arg != "" {
				fmt.Sscanf(arg, "%d", &page)
			}
			p, err := history.Page(ctx, "", page, 10)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("page %d/%d (%d sessions total)\n", p.Page+1, p.PageCount(), p.Total)
			for _, s := range p.Sessions {
				fmt.Printf("  %s  %-12s %-12s %s\n", s.ID, s.PreparationType, s.Status, s.CreatedAt.Format("2006-01-02 15:04"))
			}

		case line == "/profile":
			view := profile.Load(ctx)
			if view.User != nil {
				fmt.Printf("user: %s <%s> (%s)\n", view.User.Name, view.User.Email, view.Activation)
			} else {
				fmt.Printf("user: unavailable (%s)\n", view.Activation)
			}
			fmt.Printf("preferences: %s / %s\n", view.Preferences.DefaultPreparationType, view.Preferences.DefaultTone)
			fmt.Printf("sessions: %d total\n", view.TotalSessions)
			if view.Improvements != nil {
				for _, area := range view.Improvements.CurrentFocusAreas {
					fmt.Printf("  focus: %s (%s) - %s\n", area.Dimension, area.Priority, area.Suggestion)
				}
			}
			if view.Degraded {
				fmt.Println("note: some backend data unavailable:", view.Err)
			}

		default:
			if activeID == "" {
				fmt.Println("no active session; use /new or /load first")
				continue
			}
			if err := sessions.SendMessage(ctx, activeID, line); err != nil {
				fmt.Println("error:", err)
				continue
			}
			snap := sessions.Snapshot()
			if snap.Err != "" {
				fmt.Println("error:", snap.Err)
			} else if n := len(snap.Messages); n > 0 {
				fmt.Println("ai:", snap.Messages[n-1].Message)
			}
		}
	}
}

func printSnapshot(snap usecase.SessionSnapshot) {
	fmt.Printf("state: %s", snap.State)
	if snap.Session != nil {
		fmt.Printf("  (%s, %d messages, %ds elapsed)", snap.Session.PreparationType, len(snap.Messages), snap.ElapsedSeconds)
	}
	fmt.Println()
	for _, m := range snap.Messages {
		fmt.Printf("  %-4s %s\n", m.Role+":", m.Message)
	}
	if snap.Evaluation != nil {
		fmt.Printf("evaluation: %d/100 - %s\n", snap.Evaluation.OverallScore, snap.Evaluation.Summary)
	}
	if snap.Err != "" {
		fmt.Println("error:", snap.Err)
	}
}
