package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

// AI insight panels degrade independently: a failed fetch replaces just
// that panel's content with a warning, never the whole page.

func aiPanelError(w http.ResponseWriter, what string) {
	_, _ = w.Write([]byte(`<div class="panel-error">⚠️ Could not load ` + what + `</div>`))
}

func (s *Server) handleAIPrediction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	pred, err := s.backend.Prediction(cctx, sess.UserID)
	if err != nil {
		slog.WarnContext(r.Context(), "Prediction fetch failed", "error", err, "user_id", sess.UserID)
		aiPanelError(w, "prediction")
		return
	}

	type category struct {
		Name   string
		Amount string
	}
	data := struct {
		Prediction string
		Trend      string
		Confidence string
		Persona    string
		Text       string
		Categories []category
	}{
		Prediction: pred.Prediction.String(),
		Trend:      pred.Trend,
		Confidence: fmt.Sprintf("%.0f%%", pred.Confidence*100),
		Persona:    pred.Persona,
		Text:       pred.Text,
	}
	for _, c := range pred.TopCategories {
		data.Categories = append(data.Categories, category{Name: c.Category, Amount: c.Amount.String()})
	}

	if err := s.templates.ExecuteTemplate(w, "ai_prediction.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "ai_prediction.html")
		aiPanelError(w, "prediction")
	}
}

func (s *Server) handleAIRecommendation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	rec, err := s.backend.Recommendation(cctx, sess.UserID)
	if err != nil {
		slog.WarnContext(r.Context(), "Recommendation fetch failed", "error", err, "user_id", sess.UserID)
		aiPanelError(w, "recommendations")
		return
	}

	data := struct {
		Status  string
		Ratio   string
		Persona string
		Tips    []string
	}{
		Status:  rec.Status,
		Ratio:   fmt.Sprintf("%.0f%%", rec.Ratio*100),
		Persona: rec.Persona,
		Tips:    rec.Tips,
	}

	if err := s.templates.ExecuteTemplate(w, "ai_recommendation.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "ai_recommendation.html")
		aiPanelError(w, "recommendations")
	}
}

func (s *Server) handleAIAutoBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	ab, err := s.backend.AutoBudget(cctx, sess.UserID)
	if err != nil {
		slog.WarnContext(r.Context(), "Auto-budget fetch failed", "error", err, "user_id", sess.UserID)
		aiPanelError(w, "auto-budget")
		return
	}

	type allocation struct {
		Category string
		Amount   string
	}
	data := struct {
		Persona     string
		Text        string
		Allocations []allocation
	}{Persona: ab.Persona, Text: ab.Text}
	for cat, amt := range ab.PerCategory {
		data.Allocations = append(data.Allocations, allocation{Category: cat, Amount: amt.String()})
	}

	if err := s.templates.ExecuteTemplate(w, "ai_autobudget.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "ai_autobudget.html")
		aiPanelError(w, "auto-budget")
	}
}

func (s *Server) handleAIChallenge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	ch, err := s.backend.SavingsChallenge(cctx, sess.UserID)
	if err != nil {
		slog.WarnContext(r.Context(), "Savings challenge fetch failed", "error", err, "user_id", sess.UserID)
		aiPanelError(w, "savings challenge")
		return
	}

	data := struct {
		Challenge       string
		NextGoal        string
		Type            string
		Motivation      string
		MicroChallenges []string
	}{
		Challenge:       ch.Challenge,
		NextGoal:        ch.NextGoal.String(),
		Type:            ch.Type,
		Motivation:      ch.Motivation,
		MicroChallenges: ch.MicroChallenges,
	}

	if err := s.templates.ExecuteTemplate(w, "ai_challenge.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "ai_challenge.html")
		aiPanelError(w, "savings challenge")
	}
}
