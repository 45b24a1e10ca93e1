package api

import (
	"context"
	"fmt"
)

// Credentials is the normalized result of a successful login.
type Credentials struct {
	Token  string
	UserID string
	Name   string
	Email  string
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		// Some deployments return "id", older ones the raw Mongo "_id".
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	} `json:"user"`
}

// Login authenticates and returns the session credentials.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return Credentials{}, fmt.Errorf("login: %w", err)
	}

	userID := resp.User.ID
	if userID == "" {
		userID = resp.User.MongoID
	}
	return Credentials{
		Token:  resp.Token,
		UserID: userID,
		Name:   resp.User.Name,
		Email:  resp.User.Email,
	}, nil
}

// Signup registers a new account. The caller signs in separately.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.post(ctx, "/api/auth/signup", body, nil); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}
