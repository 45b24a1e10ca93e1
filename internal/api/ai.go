package api

import (
	"context"
	"fmt"
	"net/url"

	"spentnest/internal/core"
)

// AI insight responses are precomputed by the backend's ML service; the
// client only interpolates them into panels. "Persona" is the backend's
// spending-behavior label and is opaque here.

type (
	Prediction struct {
		Prediction    core.Money       `json:"prediction"`
		Trend         string           `json:"trend"`
		Confidence    float64          `json:"confidence"`
		Persona       string           `json:"persona"`
		TopCategories []TopCategory    `json:"top_categories"`
		Text          string           `json:"ai_text"`
	}

	TopCategory struct {
		Category string     `json:"category"`
		Amount   core.Money `json:"amount"`
	}

	Recommendation struct {
		Status  string   `json:"status"`
		Ratio   float64  `json:"ratio"`
		Persona string   `json:"persona"`
		Tips    []string `json:"tips"`
	}

	AutoBudget struct {
		Persona     string                `json:"persona"`
		PerCategory map[string]core.Money `json:"per_category"`
		Text        string                `json:"ai_text"`
	}

	SavingsChallenge struct {
		Challenge       string     `json:"challenge"`
		NextGoal        core.Money `json:"next_goal"`
		Type            string     `json:"type"`
		Motivation      string     `json:"motivation"`
		MicroChallenges []string   `json:"micro_challenges"`
	}
)

func (c *Client) Prediction(ctx context.Context, userID string) (Prediction, error) {
	var out Prediction
	if err := c.get(ctx, "/api/ai/predict/"+url.PathEscape(userID), &out); err != nil {
		return Prediction{}, fmt.Errorf("fetch prediction: %w", err)
	}
	return out, nil
}

func (c *Client) Recommendation(ctx context.Context, userID string) (Recommendation, error) {
	var out Recommendation
	if err := c.get(ctx, "/api/ai/recommend/"+url.PathEscape(userID), &out); err != nil {
		return Recommendation{}, fmt.Errorf("fetch recommendations: %w", err)
	}
	return out, nil
}

func (c *Client) AutoBudget(ctx context.Context, userID string) (AutoBudget, error) {
	var out AutoBudget
	if err := c.get(ctx, "/api/ai/autobudget/"+url.PathEscape(userID), &out); err != nil {
		return AutoBudget{}, fmt.Errorf("fetch auto-budget: %w", err)
	}
	return out, nil
}

func (c *Client) SavingsChallenge(ctx context.Context, userID string) (SavingsChallenge, error) {
	var out SavingsChallenge
	if err := c.get(ctx, "/api/ai/challenges/"+url.PathEscape(userID), &out); err != nil {
		return SavingsChallenge{}, fmt.Errorf("fetch savings challenge: %w", err)
	}
	return out, nil
}
