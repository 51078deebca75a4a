// Package stub is an in-memory rendition of the prapp backend API, close
// enough to the real contract for development and integration tests. AI
// turns are canned and evaluations are synthesized deterministically.
package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Server struct {
	store *memStore
	auth  *authManager
	log   *zerolog.Logger
}

func NewServer(secret string, logger *zerolog.Logger) *Server {
	return &Server{
		store: newMemStore(),
		auth:  newAuthManager(secret, 24*time.Hour),
		log:   logger,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/users/profile", s.handleProfile)
		r.Patch("/users/profile", s.handleUpdateProfile)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Patch("/sessions/{sessionID}", s.handleUpdateSession)
		r.Post("/sessions/{sessionID}/messages", s.handleSendMessage)
		r.Post("/sessions/{sessionID}/complete", s.handleCompleteSession)
		r.Post("/sessions/{sessionID}/evaluate", s.handleEvaluateSession)
		r.Get("/sessions/{sessionID}/evaluation", s.handleGetEvaluation)

		r.Get("/analytics/trends", s.handleTrends)
		r.Get("/analytics/improvements", s.handleImprovements)

		r.Post("/documents/upload", s.handleUploadDocument)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{documentID}", s.handleGetDocument)
		r.Delete("/documents/{documentID}", s.handleDeleteDocument)

		r.Post("/talk-points/generate", s.handleGenerateTalkPoint)
		r.Get("/talk-points", s.handleListTalkPoints)
		r.Get("/talk-points/{talkPointID}", s.handleGetTalkPoint)
		r.Delete("/talk-points/{talkPointID}", s.handleDeleteTalkPoint)

		r.Post("/playbooks", s.handleCreatePlaybook)
		r.Get("/playbooks", s.handleListPlaybooks)
		r.Get("/playbooks/{playbookID}", s.handleGetPlaybook)
		r.Put("/playbooks/{playbookID}", s.handleUpdatePlaybook)
		r.Delete("/playbooks/{playbookID}", s.handleDeletePlaybook)
		r.Post("/playbooks/{playbookID}/scenarios", s.handleAddScenario)
		r.Delete("/playbooks/{playbookID}/scenarios/{scenarioID}", s.handleDeleteScenario)
	})

	return r
}

// ---- auth & users ----

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil || body.Email == "" || len(body.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	s.store.mu.Lock()
	if _, exists := s.store.usersByMail[body.Email]; exists {
		s.store.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := &stubUser{Password: body.Password}
	u.ID = uuid.NewString()
	u.Email = body.Email
	u.Name = body.Name
	u.ActivationState = "new"
	s.store.usersByID[u.ID] = u
	s.store.usersByMail[u.Email] = u
	s.store.mu.Unlock()

	token, err := s.auth.mint(u.ID, u.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id": u.ID, "email": u.Email, "name": u.Name, "token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.mu.Lock()
	u, ok := s.store.usersByMail[body.Email]
	s.store.mu.Unlock()
	if !ok || u.Password != body.Password {
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := s.auth.mint(u.ID, u.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": u.ID, "email": u.Email, "name": u.Name, "token": token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	u, ok := s.store.usersByID[requestUserID(r)]
	s.store.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u.User)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u, ok := s.store.usersByID[requestUserID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if body.Name != "" {
		u.Name = body.Name
	}
	if body.Email != "" && body.Email != u.Email {
		delete(s.store.usersByMail, u.Email)
		u.Email = body.Email
		s.store.usersByMail[u.Email] = u
	}
	writeJSON(w, http.StatusOK, u.User)
}

// ---- helpers ----

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mirrors the backend's {"detail": ...} error shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
