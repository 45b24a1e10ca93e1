package http

import (
	"context"
	"log/slog"
	"time"

	"spentnest/internal/api"
	"spentnest/internal/core"
	"spentnest/internal/session"
)

// apiCtx derives a token-carrying context with a timeout short enough
// to not hang a partial refresh.
func (s *Server) apiCtx(ctx context.Context, sess session.Session) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	return api.WithToken(cctx, sess.Token), cancel
}

func (s *Server) getExpenses(ctx context.Context, sess session.Session) ([]core.Expense, error) {
	if items, found := s.expensesCache.Get(sess.UserID); found {
		slog.DebugContext(ctx, "Expenses cache hit", "user_id", sess.UserID, "count", len(items))
		result := make([]core.Expense, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := s.apiCtx(ctx, sess)
	defer cancel()
	items, err := s.backend.Expenses(cctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	s.expensesCache.Set(sess.UserID, items)
	return items, nil
}

func (s *Server) getBudgets(ctx context.Context, sess session.Session) ([]core.Budget, error) {
	if items, found := s.budgetsCache.Get(sess.UserID); found {
		result := make([]core.Budget, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := s.apiCtx(ctx, sess)
	defer cancel()
	items, err := s.backend.Budgets(cctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	s.budgetsCache.Set(sess.UserID, items)
	return items, nil
}

func (s *Server) getIncomes(ctx context.Context, sess session.Session) ([]core.Income, error) {
	if items, found := s.incomesCache.Get(sess.UserID); found {
		result := make([]core.Income, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := s.apiCtx(ctx, sess)
	defer cancel()
	items, err := s.backend.Incomes(cctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	s.incomesCache.Set(sess.UserID, items)
	return items, nil
}

func (s *Server) getSavings(ctx context.Context, sess session.Session) ([]core.Saving, error) {
	if items, found := s.savingsCache.Get(sess.UserID); found {
		result := make([]core.Saving, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := s.apiCtx(ctx, sess)
	defer cancel()
	items, err := s.backend.Savings(cctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	s.savingsCache.Set(sess.UserID, items)
	return items, nil
}

func (s *Server) getDues(ctx context.Context, sess session.Session) ([]core.Due, error) {
	if items, found := s.duesCache.Get(sess.UserID); found {
		result := make([]core.Due, len(items))
		copy(result, items)
		return result, nil
	}

	cctx, cancel := s.apiCtx(ctx, sess)
	defer cancel()
	items, err := s.backend.Dues(cctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	s.duesCache.Set(sess.UserID, items)
	return items, nil
}
