package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"spentnest/internal/api"
	"spentnest/internal/session"
)

// backendError builds an error toast, preferring the backend's own
// message over the generic fallback.
func backendError(err error, fallback string) *HTMXResponseBuilder {
	msg := api.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return NewHTMXResponse().
		Status(http.StatusBadGateway).
		TriggerErrorNotification(msg)
}

// validationError builds an error toast without touching the backend.
func validationError(message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusUnprocessableEntity).
		TriggerErrorNotification(message)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		validationError("Email and password are required").Write(w)
		return
	}

	creds, err := s.backend.Login(r.Context(), email, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "error", err, "email", email)
		backendError(err, "Login failed. Check your credentials.").Write(w)
		return
	}

	sess := session.Session{
		ID:        session.NewID(),
		Token:     creds.Token,
		UserID:    creds.UserID,
		Name:      creds.Name,
		Email:     creds.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.ErrorContext(r.Context(), "Failed to store session", "error", err, "user_id", creds.UserID)
		InternalServerError("Could not start session").Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.totalLogins, 1)
	setSessionCookie(w, sess.ID)

	slog.InfoContext(r.Context(), "User signed in",
		"user_id", creds.UserID,
		"session_id", sess.ID,
		"component", "auth",
		"operation", "login")

	NewHTMXResponse().
		Redirect("/dashboard").
		TriggerSuccessNotification(fmt.Sprintf("Welcome back, %s!", creds.Name)).
		Write(w)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	if name == "" || email == "" || password == "" {
		validationError("Name, email and password are required").Write(w)
		return
	}

	if err := s.backend.Signup(r.Context(), name, email, password); err != nil {
		slog.WarnContext(r.Context(), "Signup failed", "error", err, "email", email)
		backendError(err, "Signup failed. Try again.").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Account created",
		"email", email,
		"component", "auth",
		"operation", "signup")

	// The client switches back to the login form on this trigger
	NewHTMXResponse().
		Trigger("signup:done", struct{}{}).
		TriggerSuccessNotification("Account created! Sign in to continue.").
		Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "Failed to delete session", "error", err)
		}
	}
	clearSessionCookie(w)

	if r.Header.Get("HX-Request") == "true" {
		NewHTMXResponse().Redirect("/").Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
