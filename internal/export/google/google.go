// Package google exports expense history to a Google Sheet. It is an
// optional integration: the server runs fine without it.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spentnest/internal/config"
	"spentnest/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	defaultSheet  string
}

// New creates a Sheets exporter from the validated configuration. OAuth
// client and token come from inline JSON or files; run cmd/oauth-init
// once to obtain the token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	clientJSON, err := readCredential(cfg.GoogleOAuthClientJSON, cfg.GoogleOAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("oauth client credentials: %w", err)
	}
	tokenJSON, err := readCredential(cfg.GoogleOAuthTokenJSON, cfg.GoogleOAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	oauthCfg, err := oauthgoogle.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		defaultSheet:  cfg.GoogleSheetName,
	}, nil
}

func readCredential(inline, file string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		return []byte(inline), nil
	case strings.TrimSpace(file) != "":
		return os.ReadFile(file)
	default:
		return nil, errors.New("neither inline JSON nor file configured")
	}
}

// AppendExpenses appends one row per expense to the sheet. An empty
// sheetName falls back to the configured default.
func (c *Client) AppendExpenses(ctx context.Context, sheetName string, expenses []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if sheetName == "" {
		sheetName = c.defaultSheet
	}

	vr := &gsheet.ValueRange{Values: expenseRows(expenses)}
	rng := fmt.Sprintf("%s!A:D", sheetName)

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheetName, err)
	}

	slog.InfoContext(ctx, "Appended expenses to sheet",
		"sheet", sheetName,
		"rows", len(expenses))
	return nil
}

// expenseRows converts expenses into spreadsheet rows: date, description,
// category, amount in rupees.
func expenseRows(expenses []core.Expense) [][]any {
	rows := make([][]any, 0, len(expenses))
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = "Other"
		}
		rows = append(rows, []any{
			e.Date.Format("2006-01-02"),
			e.Description,
			category,
			e.Amount.Rupees(),
		})
	}
	return rows
}
